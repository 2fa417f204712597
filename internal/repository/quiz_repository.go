package repository

import (
	"classroom_backend/internal/model"
	"database/sql"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: tx}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return wrap(r.DB.Create(quiz).Error, "creating quiz")
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.First(&quiz, id).Error; err != nil {
		return nil, wrap(err, "finding quiz")
	}
	return &quiz, nil
}

func (r *QuizRepository) ListByLesson(lessonID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("lesson_id = ?", lessonID).Order("id ASC").Find(&quizzes).Error
	return quizzes, wrap(err, "listing quizzes")
}

func (r *QuizRepository) CreateAttempt(attempt *model.Attempt) error {
	return wrap(r.DB.Create(attempt).Error, "creating attempt")
}

// ListAttempts returns a student's attempts at a quiz, newest first.
func (r *QuizRepository) ListAttempts(quizID, studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Order("id DESC").
		Find(&attempts).Error
	return attempts, wrap(err, "listing attempts")
}

// AverageScore is nil when the student has no attempts.
func (r *QuizRepository) AverageScore(studentID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.DB.Model(&model.Attempt{}).
		Select("AVG(score)").
		Where("student_id = ?", studentID).
		Scan(&avg).Error
	if err != nil || !avg.Valid {
		return nil, wrap(err, "averaging attempt scores")
	}
	return &avg.Float64, nil
}

func (r *QuizRepository) DeleteByLesson(lessonID uint) error {
	sub := r.DB.Model(&model.Quiz{}).Select("id").Where("lesson_id = ?", lessonID)
	if err := r.DB.Where("quiz_id IN (?)", sub).Delete(&model.Attempt{}).Error; err != nil {
		return wrap(err, "deleting lesson attempts")
	}
	return wrap(r.DB.Where("lesson_id = ?", lessonID).Delete(&model.Quiz{}).Error, "deleting lesson quizzes")
}

func (r *QuizRepository) DeleteByCourse(courseID uint) error {
	lessons := r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)
	quizzes := r.DB.Model(&model.Quiz{}).Select("id").Where("lesson_id IN (?)", lessons)
	if err := r.DB.Where("quiz_id IN (?)", quizzes).Delete(&model.Attempt{}).Error; err != nil {
		return wrap(err, "deleting course attempts")
	}
	return wrap(r.DB.Where("lesson_id IN (?)", lessons).Delete(&model.Quiz{}).Error, "deleting course quizzes")
}

func (r *QuizRepository) DeleteAttemptsByStudent(studentID uint) error {
	return wrap(r.DB.Where("student_id = ?", studentID).Delete(&model.Attempt{}).Error, "deleting student attempts")
}
