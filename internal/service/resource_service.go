package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/logger"
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ResourceInput struct {
	Type       model.ResourceType `json:"type" validate:"resource_type"`
	Title      string             `json:"title" validate:"notblank,max=255"`
	Content    string             `json:"content"`
	Attachment *string            `json:"attachment" validate:"omitempty,max=255"`
}

// dashboardResourceLimit caps ListResources.
const dashboardResourceLimit = 6

// ResourceService manages standalone teacher materials, modules and books.
type ResourceService struct {
	Tx           *TxManager
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	ResourceRepo *repository.ResourceRepository
	Storage      *StorageService
}

func NewResourceService(
	tx *TxManager,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	resourceRepo *repository.ResourceRepository,
	storage *StorageService,
) *ResourceService {
	return &ResourceService{
		Tx:           tx,
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		ResourceRepo: resourceRepo,
		Storage:      storage,
	}
}

// CreateResource is open to teachers and admins.
func (s *ResourceService) CreateResource(ctx context.Context, actorID uint, in ResourceInput) (uint, error) {
	if err := util.Validate.Struct(in); err != nil {
		return 0, err
	}
	res := &model.Resource{
		Type:       in.Type,
		Title:      util.CleanString(in.Title),
		Content:    in.Content,
		TeacherID:  actorID,
		Attachment: util.OptionalString(in.Attachment),
	}
	err := s.Tx.Run(ctx, "CreateResource", func(tx *gorm.DB) error {
		actor, err := loadActor(tx, s.UserRepo, actorID)
		if err != nil {
			return err
		}
		if actor == nil || actor.IsStudent() {
			return util.ErrUnauthorized
		}
		return s.ResourceRepo.WithTx(tx).Create(res)
	})
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

// ListTeacherResources returns a teacher's resources, newest first, optionally of one type.
func (s *ResourceService) ListTeacherResources(ctx context.Context, teacherID uint, resType model.ResourceType) ([]model.Resource, error) {
	var list []model.Resource
	err := s.Tx.Run(ctx, "ListTeacherResources", func(tx *gorm.DB) error {
		var err error
		list, err = s.ResourceRepo.WithTx(tx).List([]uint{teacherID}, resType, 0)
		return err
	})
	return list, err
}

// ListResources returns the latest resources visible to a user: students see those of the
// teachers of their courses, teachers their own, admins everything.
func (s *ResourceService) ListResources(ctx context.Context, viewerID uint) ([]model.Resource, error) {
	var list []model.Resource
	err := s.Tx.Run(ctx, "ListResources", func(tx *gorm.DB) error {
		viewer, err := s.UserRepo.WithTx(tx).FindByID(viewerID)
		if err != nil {
			return err
		}

		var teacherIDs []uint
		switch viewer.Role {
		case model.Admin:
			teacherIDs = nil
		case model.Teacher:
			teacherIDs = []uint{viewer.ID}
		default:
			courses, err := s.CourseRepo.WithTx(tx).ListByStudent(viewer.ID)
			if err != nil {
				return err
			}
			teacherIDs = teacherIDsOf(courses)
		}
		list, err = s.ResourceRepo.WithTx(tx).List(teacherIDs, "", dashboardResourceLimit)
		return err
	})
	return list, err
}

func teacherIDsOf(courses []model.Course) []uint {
	seen := make(map[uint]bool, len(courses))
	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		if !seen[c.TeacherID] {
			seen[c.TeacherID] = true
			ids = append(ids, c.TeacherID)
		}
	}
	return ids
}

// GetResource returns one resource under the ListResources visibility rule: admins see every
// resource, teachers their own and students those of the teachers of their courses.
func (s *ResourceService) GetResource(ctx context.Context, viewerID, resourceID uint) (*model.Resource, error) {
	var res *model.Resource
	err := s.Tx.Run(ctx, "GetResource", func(tx *gorm.DB) error {
		var err error
		res, err = s.ResourceRepo.WithTx(tx).FindByID(resourceID)
		if err != nil {
			return err
		}
		viewer, err := loadActor(tx, s.UserRepo, viewerID)
		if err != nil {
			return err
		}
		if viewer == nil {
			return util.ErrUnauthorized
		}

		switch viewer.Role {
		case model.Admin:
			return nil
		case model.Teacher:
			if res.TeacherID == viewer.ID {
				return nil
			}
		default:
			courses, err := s.CourseRepo.WithTx(tx).ListByStudent(viewer.ID)
			if err != nil {
				return err
			}
			for _, id := range teacherIDsOf(courses) {
				if id == res.TeacherID {
					return nil
				}
			}
		}
		return util.ErrUnauthorized
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func canManageResource(actor *model.User, res *model.Resource) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || (actor.IsTeacher() && actor.ID == res.TeacherID)
}

// DeleteResource removes the row, then its attachment once the transaction has committed.
// A requester who is neither owner nor admin gets (false, nil).
func (s *ResourceService) DeleteResource(ctx context.Context, actorID, resourceID uint) (bool, error) {
	var attachment *string
	ok, err := denied(s.Tx.Run(ctx, "DeleteResource", func(tx *gorm.DB) error {
		resources := s.ResourceRepo.WithTx(tx)
		res, err := resources.FindByID(resourceID)
		if err != nil {
			return err
		}
		actor, err := loadActor(tx, s.UserRepo, actorID)
		if err != nil {
			return err
		}
		if !canManageResource(actor, res) {
			return errDenied
		}
		attachment = res.Attachment
		return resources.Delete(resourceID)
	}))
	if !ok || err != nil {
		return ok, err
	}

	if attachment != nil && s.Storage != nil {
		if err := s.Storage.Delete(ctx, *attachment); err != nil && !errors.Is(err, ErrBlobNotFound) {
			logger.Log.Warn("Failed to remove resource attachment", zap.String("file", *attachment), zap.Error(err))
		}
	}
	return true, nil
}
