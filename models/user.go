package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID                   uint       `json:"id" gorm:"primarykey"`
	Name                 string     `json:"name" gorm:"size:100;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password             string     `json:"-" gorm:"not null"`
	Role                 UserRole   `json:"role" gorm:"size:16;index;default:'user'"`
	ResetPasswordToken   *string    `json:"-" gorm:"size:64;index"`
	ResetPasswordExpires *time.Time `json:"-"`
	LastLogin            *time.Time `json:"lastLogin,omitempty"`
	CreatedAt            time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the shape returned next to a freshly issued token.
type PublicUser struct {
	ID    uint     `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
