package repository

import (
	"classroom_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) WithTx(tx *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: tx}
}

func (r *ResourceRepository) Create(res *model.Resource) error {
	return wrap(r.DB.Create(res).Error, "creating resource")
}

// FindByID loads a resource with the owning teacher's name.
func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var res model.Resource
	err := r.DB.Model(&model.Resource{}).
		Select("resources.*, u.name AS teacher_name").
		Joins("LEFT JOIN users u ON resources.teacher_id = u.id").
		Where("resources.id = ?", id).
		Take(&res).Error
	if err != nil {
		return nil, wrap(err, "finding resource")
	}
	return &res, nil
}

func (r *ResourceRepository) Delete(id uint) error {
	return wrap(r.DB.Delete(&model.Resource{}, id).Error, "deleting resource")
}

// DeleteByTeacher removes every resource a teacher owns and returns their attachment names.
func (r *ResourceRepository) DeleteByTeacher(teacherID uint) ([]string, error) {
	var attachments []string
	err := r.DB.Model(&model.Resource{}).
		Where("teacher_id = ? AND attachment IS NOT NULL", teacherID).
		Pluck("attachment", &attachments).Error
	if err != nil {
		return nil, wrap(err, "listing teacher attachments")
	}
	if err := r.DB.Where("teacher_id = ?", teacherID).Delete(&model.Resource{}).Error; err != nil {
		return nil, wrap(err, "deleting teacher resources")
	}
	return attachments, nil
}

// List returns resources newest first with the owning teacher's name. A zero teacherIDs
// slice means every teacher; an empty type means every type.
func (r *ResourceRepository) List(teacherIDs []uint, resType model.ResourceType, limit int) ([]model.Resource, error) {
	query := r.DB.Model(&model.Resource{}).
		Select("resources.*, u.name AS teacher_name").
		Joins("LEFT JOIN users u ON resources.teacher_id = u.id")
	if teacherIDs != nil {
		if len(teacherIDs) == 0 {
			return []model.Resource{}, nil
		}
		query = query.Where("resources.teacher_id IN ?", teacherIDs)
	}
	if resType != "" {
		query = query.Where("resources.type = ?", resType)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var list []model.Resource
	err := query.Order("resources.created_at DESC, resources.id DESC").Find(&list).Error
	return list, wrap(err, "listing resources")
}
