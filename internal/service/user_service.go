package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NewUserInput struct {
	Name     string         `json:"name" validate:"notblank,max=100"`
	Email    string         `json:"email" validate:"required,email,max=255"`
	Password string         `json:"password" validate:"required,min=6,max=72"`
	Role     model.UserRole `json:"role" validate:"role"`
	SchoolID *string        `json:"schoolId" validate:"omitempty,max=64"`
	Bio      *string        `json:"bio"`
}

type ProfileInput struct {
	Name     string  `json:"name" validate:"notblank,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	SchoolID *string `json:"schoolId" validate:"omitempty,max=64"`
	Bio      *string `json:"bio"`
}

// DeletedUserView is one audit record with the snapshot decoded and the name/email lifted out.
type DeletedUserView struct {
	ID        uint                   `json:"id"`
	UserID    uint                   `json:"userId"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	DeletedBy *uint                  `json:"deletedBy,omitempty"`
	DeletedAt time.Time              `json:"deletedAt"`
	Snapshot  map[string]interface{} `json:"snapshot"`
}

// UserService is the identity and audit manager.
type UserService struct {
	Tx           *TxManager
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	LessonRepo   *repository.LessonRepository
	QuizRepo     *repository.QuizRepository
	AuditRepo    *repository.AuditRepository
	ResourceRepo *repository.ResourceRepository
	Content      *ContentService
	Storage      *StorageService
}

func NewUserService(
	tx *TxManager,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	auditRepo *repository.AuditRepository,
	resourceRepo *repository.ResourceRepository,
	content *ContentService,
	storage *StorageService,
) *UserService {
	return &UserService{
		Tx:           tx,
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		LessonRepo:   lessonRepo,
		QuizRepo:     quizRepo,
		AuditRepo:    auditRepo,
		ResourceRepo: resourceRepo,
		Content:      content,
		Storage:      storage,
	}
}

// CreateUser stores a new account. The email is compared case-insensitively: it is trimmed
// and lower-cased before the unique index sees it.
func (s *UserService) CreateUser(ctx context.Context, in NewUserInput) (uint, error) {
	if in.Role == "" {
		in.Role = model.Student
	}
	in.Email = util.CleanString(in.Email, true)
	if err := util.Validate.Struct(in); err != nil {
		return 0, err
	}

	user := &model.User{
		Name:     util.CleanString(in.Name),
		Email:    in.Email,
		Role:     in.Role,
		SchoolID: util.OptionalString(in.SchoolID),
		Bio:      util.OptionalString(in.Bio),
		IsActive: true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return 0, err
	}

	err := s.Tx.Run(ctx, "CreateUser", func(tx *gorm.DB) error {
		return s.UserRepo.WithTx(tx).Create(user)
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) error {
	in.Email = util.CleanString(in.Email, true)
	if err := util.Validate.Struct(in); err != nil {
		return err
	}
	return s.Tx.Run(ctx, "UpdateProfile", func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		if _, err := users.FindByID(id); err != nil {
			return err
		}
		return users.UpdateProfile(id, util.CleanString(in.Name), in.Email, util.OptionalString(in.SchoolID), util.OptionalString(in.Bio))
	})
}

// ResetPassword replaces the password of the account with the given email.
func (s *UserService) ResetPassword(ctx context.Context, email, password string) error {
	if err := util.Validate.Var(password, "required,min=6,max=72"); err != nil {
		return err
	}
	email = util.CleanString(email, true)
	return s.Tx.Run(ctx, "ResetPassword", func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByEmail(email)
		if err != nil {
			return err
		}
		if err := user.SetPassword(password); err != nil {
			return err
		}
		return users.SetPassword(user.ID, user.PasswordHash)
	})
}

// SetRole only checks the role value. Courses owned by a demoted teacher stay with them.
func (s *UserService) SetRole(ctx context.Context, id uint, role model.UserRole) error {
	if !role.Valid() {
		return util.ErrInvalidRole
	}
	return s.Tx.Run(ctx, "SetRole", func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		exists, err := users.Exists(id)
		if err != nil {
			return err
		}
		if !exists {
			return util.ErrNotFound
		}
		_, err = users.SetRole(id, role)
		return err
	})
}

// SoftDelete snapshots the user and deactivates the row. It reports false when the user is
// already inactive.
func (s *UserService) SoftDelete(ctx context.Context, id uint, deletedBy *uint) (bool, error) {
	var changed bool
	err := s.Tx.Run(ctx, "SoftDelete", func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByID(id)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return nil
		}
		if err := s.recordDeletedUser(tx, user, deletedBy); err != nil {
			return err
		}
		changed = true
		return users.SetActive(id, false)
	})
	if changed && err == nil {
		logger.Log.Info("User deactivated", zap.Uint("userID", id), zap.Uintp("by", deletedBy))
	}
	return changed && err == nil, err
}

// Purge removes the user and everything that references them. Owned courses go through the
// same destroy path as DestroyCourse, inside this transaction.
func (s *UserService) Purge(ctx context.Context, id uint, deletedBy *uint) error {
	var attachments []string
	err := s.Tx.Run(ctx, "Purge", func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByID(id)
		if err != nil {
			return err
		}
		if err := s.recordDeletedUser(tx, user, deletedBy); err != nil {
			return err
		}

		courses := s.CourseRepo.WithTx(tx)
		if err := courses.DeleteMembershipsByStudent(id); err != nil {
			return err
		}
		if err := s.LessonRepo.WithTx(tx).DeleteSubmissionsByStudent(id); err != nil {
			return err
		}
		if err := s.QuizRepo.WithTx(tx).DeleteAttemptsByStudent(id); err != nil {
			return err
		}

		owned, err := courses.ListByTeacher(id)
		if err != nil {
			return err
		}
		for i := range owned {
			if err := s.Content.destroyCourseTx(tx, &owned[i], deletedBy); err != nil {
				return err
			}
		}

		attachments, err = s.ResourceRepo.WithTx(tx).DeleteByTeacher(id)
		if err != nil {
			return err
		}
		return users.Delete(id)
	})
	if err != nil {
		return err
	}

	logger.Log.Info("User purged", zap.Uint("userID", id), zap.Uintp("by", deletedBy))
	s.removeBlobs(ctx, attachments)
	return nil
}

// Restore brings a user back from an audit record and consumes the record. Memberships,
// submissions and courses removed by a purge are not recreated.
func (s *UserService) Restore(ctx context.Context, snapshotID uint) (uint, error) {
	var userID uint
	err := s.Tx.Run(ctx, "Restore", func(tx *gorm.DB) error {
		audit := s.AuditRepo.WithTx(tx)
		rec, err := audit.FindDeletedUser(snapshotID)
		if err != nil {
			return err
		}

		var snap model.UserSnapshot
		if err := json.Unmarshal(rec.Snapshot, &snap); err != nil {
			return err
		}
		if snap.ID == 0 {
			snap.ID = rec.UserID
		}

		users := s.UserRepo.WithTx(tx)
		exists, err := users.Exists(snap.ID)
		if err != nil {
			return err
		}
		if exists {
			err = users.Restore(snap)
		} else {
			user := snap.User()
			err = users.Create(&user)
		}
		if err != nil {
			return err
		}

		userID = snap.ID
		_, err = audit.DeleteDeletedUser(rec.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	logger.Log.Info("User restored", zap.Uint("userID", userID), zap.Uint("record", snapshotID))
	return userID, nil
}

func (s *UserService) ListDeletedUsers(ctx context.Context) ([]DeletedUserView, error) {
	var recs []model.DeletedUser
	err := s.Tx.Run(ctx, "ListDeletedUsers", func(tx *gorm.DB) error {
		var err error
		recs, err = s.AuditRepo.WithTx(tx).ListDeletedUsers()
		return err
	})
	if err != nil {
		return nil, err
	}

	views := make([]DeletedUserView, 0, len(recs))
	for _, rec := range recs {
		view := DeletedUserView{
			ID:        rec.ID,
			UserID:    rec.UserID,
			DeletedBy: rec.DeletedBy,
			DeletedAt: rec.DeletedAt,
			Snapshot:  map[string]interface{}{},
		}
		// 快照损坏时仍然列出记录
		if err := json.Unmarshal(rec.Snapshot, &view.Snapshot); err != nil {
			view.Snapshot = map[string]interface{}{}
		}
		view.Name, _ = view.Snapshot["name"].(string)
		view.Email, _ = view.Snapshot["email"].(string)
		views = append(views, view)
	}
	return views, nil
}

func (s *UserService) DeleteAuditRecord(ctx context.Context, id uint) (bool, error) {
	var removed bool
	err := s.Tx.Run(ctx, "DeleteAuditRecord", func(tx *gorm.DB) error {
		var err error
		removed, err = s.AuditRepo.WithTx(tx).DeleteDeletedUser(id)
		return err
	})
	return removed, err
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user *model.User
	err := s.Tx.Run(ctx, "GetUser", func(tx *gorm.DB) error {
		var err error
		user, err = s.UserRepo.WithTx(tx).FindByID(id)
		return err
	})
	return user, err
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user *model.User
	err := s.Tx.Run(ctx, "GetUserByEmail", func(tx *gorm.DB) error {
		var err error
		user, err = s.UserRepo.WithTx(tx).FindByEmail(util.CleanString(email, true))
		return err
	})
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	var (
		users []model.User
		total int64
	)
	err := s.Tx.Run(ctx, "ListUsers", func(tx *gorm.DB) error {
		var err error
		users, total, err = s.UserRepo.WithTx(tx).List(filter)
		return err
	})
	return users, total, err
}

func (s *UserService) recordDeletedUser(tx *gorm.DB, user *model.User, deletedBy *uint) error {
	snapshot, err := json.Marshal(user.Snapshot())
	if err != nil {
		return err
	}
	return s.AuditRepo.WithTx(tx).CreateDeletedUser(&model.DeletedUser{
		UserID:    user.ID,
		Snapshot:  datatypes.JSON(snapshot),
		DeletedBy: deletedBy,
	})
}

// removeBlobs deletes stored files after the rows referencing them are gone. A failure only
// leaves an orphaned file behind.
func (s *UserService) removeBlobs(ctx context.Context, names []string) {
	if s.Storage == nil {
		return
	}
	for _, name := range names {
		if err := s.Storage.Delete(ctx, name); err != nil && !errors.Is(err, ErrBlobNotFound) {
			logger.Log.Warn("Failed to remove attachment", zap.String("file", name), zap.Error(err))
		}
	}
}
