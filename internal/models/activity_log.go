package models

import "time"

// ActivityLog is an append-only audit row addressed to a single user.
// ActorName is resolved at write time so the entry survives later renames
// or deletions of the acting user.
type ActivityLog struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ActorName string    `gorm:"type:varchar(255);not null" json:"actor_name"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
