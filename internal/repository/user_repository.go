package repository

import (
	"classroom_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

// UserFilter narrows ListUsers. Zero values match everything.
type UserFilter struct {
	Role     model.UserRole
	Active   *bool
	Keyword  string
	Page     int
	PageSize int
}

func (r *UserRepository) Create(user *model.User) error {
	return wrap(r.DB.Create(user).Error, "creating user")
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, wrap(err, "finding user")
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap(err, "finding user by email")
	}
	return &user, nil
}

func (r *UserRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, wrap(err, "probing user")
}

// UpdateProfile writes the editable columns. Nil optional fields are stored as NULL.
func (r *UserRepository) UpdateProfile(id uint, name, email string, schoolID, bio *string) error {
	err := r.DB.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":      name,
		"email":     email,
		"school_id": schoolID,
		"bio":       bio,
	}).Error
	return wrap(err, "updating user profile")
}

func (r *UserRepository) SetRole(id uint, role model.UserRole) (bool, error) {
	res := r.DB.Model(&model.User{}).Where("id = ?", id).Update("role", role)
	return res.RowsAffected > 0, wrap(res.Error, "setting user role")
}

func (r *UserRepository) SetPassword(id uint, hash string) error {
	return wrap(r.DB.Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash).Error, "setting user password")
}

func (r *UserRepository) SetActive(id uint, active bool) error {
	return wrap(r.DB.Model(&model.User{}).Where("id = ?", id).Update("is_active", active).Error, "setting user active")
}

// Restore overwrites the identity columns from a snapshot and reactivates the row. Columns the
// snapshot leaves empty keep their current value.
func (r *UserRepository) Restore(snap model.UserSnapshot) error {
	updates := map[string]interface{}{"is_active": true}
	if snap.Name != "" {
		updates["name"] = snap.Name
	}
	if snap.Email != "" {
		updates["email"] = snap.Email
	}
	if snap.Role != "" {
		updates["role"] = snap.Role
	}
	if snap.SchoolID != nil {
		updates["school_id"] = snap.SchoolID
	}
	if snap.Bio != nil {
		updates["bio"] = snap.Bio
	}
	return wrap(r.DB.Model(&model.User{}).Where("id = ?", snap.ID).Updates(updates).Error, "restoring user")
}

func (r *UserRepository) Delete(id uint) error {
	return wrap(r.DB.Delete(&model.User{}, id).Error, "deleting user")
}

func (r *UserRepository) List(filter UserFilter) ([]model.User, int64, error) {
	query := r.DB.Model(&model.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "counting users")
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var users []model.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, wrap(err, "listing users")
	}
	return users, total, nil
}
