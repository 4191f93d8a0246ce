package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether the value is a recognized task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID              uint64          `gorm:"primarykey" json:"id"`
	Title           string          `gorm:"not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Status          TaskStatus      `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	DueDate         *time.Time      `json:"due_date"`
	CreatorID       uint64          `gorm:"not null" json:"creator_id"`
	WorkspaceID     *uint64         `gorm:"index" json:"workspace_id"`
	ParentID        *uint64         `gorm:"index" json:"parent_id"`
	DelegationChain DelegationChain `gorm:"type:text;not null" json:"delegation_chain"`
	DelegationCount int             `gorm:"not null;default:0" json:"delegation_count"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Workspace   *Workspace       `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Parent      *Task            `gorm:"foreignKey:ParentID" json:"-"`
	SubTasks    []Task           `gorm:"foreignKey:ParentID" json:"sub_tasks,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// IsPersonal reports whether the task lives outside any workspace.
func (t *Task) IsPersonal() bool {
	return t.WorkspaceID == nil
}

// CurrentAssignment returns the active assignment held by the user, if any.
// Assignments must be preloaded.
func (t *Task) CurrentAssignment(userID uint64) *TaskAssignment {
	for i := range t.Assignments {
		if t.Assignments[i].AssigneeID == userID {
			return &t.Assignments[i]
		}
	}
	return nil
}
