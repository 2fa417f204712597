package repository

import (
	"classroom_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return wrap(r.DB.Create(course).Error, "creating course")
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.First(&course, id).Error; err != nil {
		return nil, wrap(err, "finding course")
	}
	return &course, nil
}

func (r *CourseRepository) FindByCode(code string) (*model.Course, error) {
	var course model.Course
	if err := r.DB.Where("code = ?", code).First(&course).Error; err != nil {
		return nil, wrap(err, "finding course by code")
	}
	return &course, nil
}

func (r *CourseRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Where("code = ?", code).Count(&count).Error
	return count > 0, wrap(err, "probing course code")
}

func (r *CourseRepository) Update(id uint, title, description string) error {
	err := r.DB.Model(&model.Course{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
	}).Error
	return wrap(err, "updating course")
}

func (r *CourseRepository) Delete(id uint) error {
	return wrap(r.DB.Delete(&model.Course{}, id).Error, "deleting course")
}

func (r *CourseRepository) ListByTeacher(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("teacher_id = ?", teacherID).Order("id ASC").Find(&courses).Error
	return courses, wrap(err, "listing teacher courses")
}

func (r *CourseRepository) ListByStudent(studentID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Joins("JOIN class_members cm ON cm.course_id = courses.id").
		Where("cm.student_id = ?", studentID).
		Order("courses.id ASC").
		Find(&courses).Error
	return courses, wrap(err, "listing student courses")
}

func (r *CourseRepository) ListAll() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("id ASC").Find(&courses).Error
	return courses, wrap(err, "listing courses")
}

// AddMember is idempotent: an existing (course, student) pair is left untouched.
func (r *CourseRepository) AddMember(courseID, studentID uint) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.ClassMember{
		CourseID:  courseID,
		StudentID: studentID,
	})
	return res.RowsAffected > 0, wrap(res.Error, "adding class member")
}

func (r *CourseRepository) RemoveMember(courseID, studentID uint) (bool, error) {
	res := r.DB.Where("course_id = ? AND student_id = ?", courseID, studentID).Delete(&model.ClassMember{})
	return res.RowsAffected > 0, wrap(res.Error, "removing class member")
}

func (r *CourseRepository) IsMember(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ClassMember{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, wrap(err, "probing class member")
}

func (r *CourseRepository) ListMembers(courseID uint) ([]model.Member, error) {
	var members []model.Member
	err := r.DB.Table("class_members cm").
		Select("u.id, u.name, u.email, u.school_id, cm.joined_at").
		Joins("JOIN users u ON cm.student_id = u.id").
		Where("cm.course_id = ?", courseID).
		Order("cm.id ASC").
		Scan(&members).Error
	return members, wrap(err, "listing class members")
}

func (r *CourseRepository) DeleteMembersByCourse(courseID uint) error {
	return wrap(r.DB.Where("course_id = ?", courseID).Delete(&model.ClassMember{}).Error, "deleting course members")
}

func (r *CourseRepository) DeleteMembershipsByStudent(studentID uint) error {
	return wrap(r.DB.Where("student_id = ?", studentID).Delete(&model.ClassMember{}).Error, "deleting student memberships")
}
