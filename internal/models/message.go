package models

import "time"

// Message is either a direct message (ReceiverID set, WorkspaceID nil) or a
// workspace message (WorkspaceID set).
type Message struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	SenderID    uint64    `gorm:"not null;index" json:"sender_id"`
	ReceiverID  *uint64   `gorm:"index" json:"receiver_id"`
	WorkspaceID *uint64   `gorm:"index" json:"workspace_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Sender   User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}
