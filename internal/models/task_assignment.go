package models

import "time"

// TaskAssignment links a task to its single current assignee. Replacing the
// assignee is a hard delete of the old row plus an insert of the new one in
// the same transaction, so at most one row exists per task at any time.
// History lives in the task's delegation chain, not here.
type TaskAssignment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	TaskID     uint64    `gorm:"not null;index" json:"task_id"`
	AssigneeID uint64    `gorm:"not null;index" json:"assignee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Task     Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Assignee User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
