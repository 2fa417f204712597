package repository

import (
	"classroom_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// CompletedLessons counts distinct lessons of joined courses where the student submitted at
// least once.
func (r *ProgressRepository) CompletedLessons(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Table("lessons l").
		Select("COUNT(DISTINCT l.id)").
		Joins("JOIN class_members cm ON cm.course_id = l.course_id AND cm.student_id = ?", studentID).
		Joins("JOIN assignments a ON a.lesson_id = l.id").
		Joins("JOIN submissions s ON s.assignment_id = a.id").
		Where("s.student_id = ?", studentID).
		Scan(&count).Error
	return count, wrap(err, "counting completed lessons")
}

// EnrolledLessons counts the lessons of every course the student has joined.
func (r *ProgressRepository) EnrolledLessons(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Joins("JOIN class_members cm ON cm.course_id = lessons.course_id").
		Where("cm.student_id = ?", studentID).
		Count(&count).Error
	return count, wrap(err, "counting enrolled lessons")
}
