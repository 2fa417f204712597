package model

import (
	"gorm.io/datatypes"
)

// Question is one multiple-choice item. Answer indexes Choices.
type Question struct {
	Question string   `json:"question" validate:"notblank"`
	Choices  []string `json:"choices" validate:"min=1"`
	Answer   int      `json:"answer"`
}

// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID  uint                          `gorm:"index;not null" json:"lessonId"`
	Questions datatypes.JSONSlice[Question] `gorm:"type:text;not null" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Attempt is one scored try at a quiz; history is never overwritten.
type Attempt struct {
	BaseModel
	QuizID    uint                      `gorm:"index;not null" json:"quizId"`
	StudentID uint                      `gorm:"index;not null" json:"studentId"`
	Answers   datatypes.JSONSlice[*int] `gorm:"type:text;not null" json:"answers"`
	Score     float64                   `gorm:"not null" json:"score"`
}

func (Attempt) TableName() string {
	return "attempts"
}
