package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   uint   `gorm:"index;not null" json:"teacherId"`
	Code        string `gorm:"size:6;uniqueIndex;not null" json:"code"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseSnapshot mirrors every column of the courses table.
type CourseSnapshot struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   uint      `json:"teacher_id"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Course) Snapshot() CourseSnapshot {
	return CourseSnapshot{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		TeacherID:   c.TeacherID,
		Code:        c.Code,
		CreatedAt:   c.CreatedAt,
	}
}

type ClassMember struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_class_members_pair" json:"courseId"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_class_members_pair" json:"studentId"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

func (ClassMember) TableName() string {
	return "class_members"
}

// Member is the roster projection of a class member.
type Member struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	SchoolID *string   `json:"schoolId,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}
