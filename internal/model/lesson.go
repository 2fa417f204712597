package model

import "time"

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID   uint    `gorm:"index;not null" json:"courseId"`
	Title      string  `gorm:"size:255;not null" json:"title"`
	Content    string  `gorm:"type:text" json:"content"`
	Attachment *string `gorm:"size:255" json:"attachment,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model Assignment
type Assignment struct {
	BaseModel
	LessonID    uint       `gorm:"index;not null" json:"lessonId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// Submission is append-only: a resubmission is a new row.
type Submission struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignmentId"`
	StudentID    uint      `gorm:"index;not null" json:"studentId"`
	FilePath     *string   `gorm:"size:255" json:"filePath,omitempty"`
	Text         *string   `gorm:"type:text" json:"text,omitempty"`
	Grade        *float64  `json:"grade,omitempty"`
	Feedback     *string   `gorm:"type:text" json:"feedback,omitempty"`
	SubmittedAt  time.Time `gorm:"autoCreateTime" json:"submittedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionRow joins a submission with its student's name.
type SubmissionRow struct {
	Submission
	StudentName string `json:"studentName"`
}
