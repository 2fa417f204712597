package model

import (
	"time"

	"gorm.io/datatypes"
)

// DeletedUser keeps the row of a user as it was right before a soft delete or purge.
// UserID is a back-reference; the user may no longer exist.
type DeletedUser struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"userId"`
	Snapshot  datatypes.JSON `gorm:"type:text;not null" json:"snapshot"`
	DeletedBy *uint          `json:"deletedBy,omitempty"`
	DeletedAt time.Time      `gorm:"autoCreateTime" json:"deletedAt"`
}

func (DeletedUser) TableName() string {
	return "deleted_users"
}

type DeletedCourse struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint           `gorm:"index;not null" json:"courseId"`
	Title     string         `gorm:"size:255" json:"title"`
	TeacherID uint           `json:"teacherId"`
	Snapshot  datatypes.JSON `gorm:"type:text;not null" json:"snapshot"`
	DeletedBy *uint          `json:"deletedBy,omitempty"`
	DeletedAt time.Time      `gorm:"autoCreateTime" json:"deletedAt"`

	TeacherName *string `gorm:"->;-:migration" json:"teacherName,omitempty"`
}

func (DeletedCourse) TableName() string {
	return "deleted_courses"
}
