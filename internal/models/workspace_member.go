package models

import "time"

type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "OWNER"
	RoleLeader WorkspaceRole = "LEADER"
	RoleMember WorkspaceRole = "MEMBER"
)

// IsLeadership reports whether the role may manage tasks and members beyond
// its own (create subtasks, edit or delete others' tasks, list all workspace
// tasks, add members).
func (r WorkspaceRole) IsLeadership() bool {
	return r == RoleOwner || r == RoleLeader
}

type WorkspaceMember struct {
	WorkspaceID uint64        `gorm:"primarykey" json:"workspace_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
