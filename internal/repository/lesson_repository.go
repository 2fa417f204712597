package repository

import (
	"classroom_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// LessonRepository covers lessons and the assignments and submissions below them.
type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) WithTx(tx *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: tx}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return wrap(r.DB.Create(lesson).Error, "creating lesson")
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.DB.First(&lesson, id).Error; err != nil {
		return nil, wrap(err, "finding lesson")
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(id uint, title, content string, attachment *string) error {
	updates := map[string]interface{}{
		"title":   title,
		"content": content,
	}
	if attachment != nil {
		updates["attachment"] = attachment
	}
	return wrap(r.DB.Model(&model.Lesson{}).Where("id = ?", id).Updates(updates).Error, "updating lesson")
}

func (r *LessonRepository) Delete(id uint) error {
	return wrap(r.DB.Delete(&model.Lesson{}, id).Error, "deleting lesson")
}

func (r *LessonRepository) DeleteByCourse(courseID uint) error {
	return wrap(r.DB.Where("course_id = ?", courseID).Delete(&model.Lesson{}).Error, "deleting course lessons")
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("id ASC").Find(&lessons).Error
	return lessons, wrap(err, "listing lessons")
}

func (r *LessonRepository) CreateAssignment(a *model.Assignment) error {
	return wrap(r.DB.Create(a).Error, "creating assignment")
}

func (r *LessonRepository) FindAssignment(id uint) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, wrap(err, "finding assignment")
	}
	return &a, nil
}

// CourseIDOfAssignment resolves assignment -> lesson -> course.
func (r *LessonRepository) CourseIDOfAssignment(assignmentID uint) (uint, error) {
	var courseID uint
	err := r.DB.Table("assignments a").
		Select("l.course_id").
		Joins("JOIN lessons l ON l.id = a.lesson_id").
		Where("a.id = ?", assignmentID).
		Take(&courseID).Error
	return courseID, wrap(err, "resolving assignment course")
}

func (r *LessonRepository) UpdateAssignment(id uint, title, description string, dueDate *time.Time) error {
	err := r.DB.Model(&model.Assignment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
		"due_date":    dueDate,
	}).Error
	return wrap(err, "updating assignment")
}

func (r *LessonRepository) DeleteAssignment(id uint) error {
	return wrap(r.DB.Delete(&model.Assignment{}, id).Error, "deleting assignment")
}

func (r *LessonRepository) ListAssignments(lessonID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("lesson_id = ?", lessonID).Order("id ASC").Find(&assignments).Error
	return assignments, wrap(err, "listing assignments")
}

func (r *LessonRepository) DeleteAssignmentsByLesson(lessonID uint) error {
	return wrap(r.DB.Where("lesson_id = ?", lessonID).Delete(&model.Assignment{}).Error, "deleting lesson assignments")
}

func (r *LessonRepository) DeleteAssignmentsByCourse(courseID uint) error {
	err := r.DB.Where("lesson_id IN (?)", r.lessonIDs(courseID)).Delete(&model.Assignment{}).Error
	return wrap(err, "deleting course assignments")
}

func (r *LessonRepository) CreateSubmission(s *model.Submission) error {
	return wrap(r.DB.Create(s).Error, "creating submission")
}

func (r *LessonRepository) FindSubmission(id uint) (*model.Submission, error) {
	var s model.Submission
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, wrap(err, "finding submission")
	}
	return &s, nil
}

func (r *LessonRepository) GradeSubmission(id uint, grade *float64, feedback *string) error {
	err := r.DB.Model(&model.Submission{}).Where("id = ?", id).Updates(map[string]interface{}{
		"grade":    grade,
		"feedback": feedback,
	}).Error
	return wrap(err, "grading submission")
}

// ListSubmissions returns the submissions of an assignment joined with the student's name,
// oldest first.
func (r *LessonRepository) ListSubmissions(assignmentID uint) ([]model.SubmissionRow, error) {
	var rows []model.SubmissionRow
	err := r.DB.Table("submissions s").
		Select("s.*, u.name AS student_name").
		Joins("JOIN users u ON s.student_id = u.id").
		Where("s.assignment_id = ?", assignmentID).
		Order("s.id ASC").
		Scan(&rows).Error
	return rows, wrap(err, "listing submissions")
}

func (r *LessonRepository) DeleteSubmissionsByAssignment(assignmentID uint) error {
	return wrap(r.DB.Where("assignment_id = ?", assignmentID).Delete(&model.Submission{}).Error, "deleting assignment submissions")
}

func (r *LessonRepository) DeleteSubmissionsByLesson(lessonID uint) error {
	sub := r.DB.Model(&model.Assignment{}).Select("id").Where("lesson_id = ?", lessonID)
	return wrap(r.DB.Where("assignment_id IN (?)", sub).Delete(&model.Submission{}).Error, "deleting lesson submissions")
}

func (r *LessonRepository) DeleteSubmissionsByCourse(courseID uint) error {
	sub := r.DB.Model(&model.Assignment{}).Select("id").Where("lesson_id IN (?)", r.lessonIDs(courseID))
	return wrap(r.DB.Where("assignment_id IN (?)", sub).Delete(&model.Submission{}).Error, "deleting course submissions")
}

func (r *LessonRepository) DeleteSubmissionsByStudent(studentID uint) error {
	return wrap(r.DB.Where("student_id = ?", studentID).Delete(&model.Submission{}).Error, "deleting student submissions")
}

func (r *LessonRepository) lessonIDs(courseID uint) *gorm.DB {
	return r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)
}
