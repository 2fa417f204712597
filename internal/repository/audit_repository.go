package repository

import (
	"classroom_backend/internal/model"

	"gorm.io/gorm"
)

// AuditRepository stores the deleted_users and deleted_courses snapshots.
type AuditRepository struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

func (r *AuditRepository) WithTx(tx *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: tx}
}

func (r *AuditRepository) CreateDeletedUser(rec *model.DeletedUser) error {
	return wrap(r.DB.Create(rec).Error, "recording deleted user")
}

func (r *AuditRepository) FindDeletedUser(id uint) (*model.DeletedUser, error) {
	var rec model.DeletedUser
	if err := r.DB.First(&rec, id).Error; err != nil {
		return nil, wrap(err, "finding deleted user record")
	}
	return &rec, nil
}

// ListDeletedUsers is newest first; id breaks ties inside one clock tick.
func (r *AuditRepository) ListDeletedUsers() ([]model.DeletedUser, error) {
	var recs []model.DeletedUser
	err := r.DB.Order("deleted_at DESC, id DESC").Find(&recs).Error
	return recs, wrap(err, "listing deleted users")
}

func (r *AuditRepository) DeleteDeletedUser(id uint) (bool, error) {
	res := r.DB.Delete(&model.DeletedUser{}, id)
	return res.RowsAffected > 0, wrap(res.Error, "deleting deleted user record")
}

func (r *AuditRepository) CreateDeletedCourse(rec *model.DeletedCourse) error {
	return wrap(r.DB.Create(rec).Error, "recording deleted course")
}

func (r *AuditRepository) ListDeletedCourses() ([]model.DeletedCourse, error) {
	var recs []model.DeletedCourse
	err := r.DB.Model(&model.DeletedCourse{}).
		Select("deleted_courses.*, u.name AS teacher_name").
		Joins("LEFT JOIN users u ON deleted_courses.teacher_id = u.id").
		Order("deleted_courses.deleted_at DESC, deleted_courses.id DESC").
		Find(&recs).Error
	return recs, wrap(err, "listing deleted courses")
}

func (r *AuditRepository) DeleteDeletedCourse(id uint) (bool, error) {
	res := r.DB.Delete(&model.DeletedCourse{}, id)
	return res.RowsAffected > 0, wrap(res.Error, "deleting deleted course record")
}
