package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleMember UserRole = "MEMBER"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedTasks []Task            `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments  []TaskAssignment  `gorm:"foreignKey:AssigneeID" json:"-"`
	Workspaces   []WorkspaceMember `gorm:"foreignKey:UserID" json:"-"`
}
