package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case Student, Teacher, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"column:password_hash;not null" json:"-"`
	Role         UserRole `gorm:"size:16;not null" json:"role"`
	SchoolID     *string  `gorm:"size:64" json:"schoolId,omitempty"`
	Bio          *string  `gorm:"type:text" json:"bio,omitempty"`
	IsActive     bool     `gorm:"not null" json:"isActive"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == Admin }
func (u *User) IsTeacher() bool { return u.Role == Teacher }
func (u *User) IsStudent() bool { return u.Role == Student }

// UserSnapshot mirrors every column of the users table. It is the JSON body stored in
// deleted_users.snapshot.
type UserSnapshot struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         UserRole  `json:"role"`
	SchoolID     *string   `json:"school_id"`
	Bio          *string   `json:"bio"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		SchoolID:     u.SchoolID,
		Bio:          u.Bio,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

// User rebuilds a live row from the snapshot under its original id.
func (s UserSnapshot) User() User {
	return User{
		BaseModel:    BaseModel{ID: s.ID, CreatedAt: s.CreatedAt},
		Name:         s.Name,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Role:         s.Role,
		SchoolID:     s.SchoolID,
		Bio:          s.Bio,
		IsActive:     true,
	}
}
