package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/database"
	"classroom_backend/pkg/logger"
	"classroom_backend/pkg/monitoring"
	"classroom_backend/pkg/tracing"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// errDenied rolls back an operation whose actor lacks the capability. Methods that report
// denial as a boolean turn it back into (false, nil).
var errDenied = errors.New("denied")

// TxManager runs each service operation in exactly one transaction bounded by the
// configured lock timeout.
type TxManager struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewTxManager(db *gorm.DB, timeout time.Duration) *TxManager {
	return &TxManager{DB: db, Timeout: timeout}
}

// Run commits when fn returns nil and rolls back otherwise, including on panic.
func (m *TxManager) Run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	ctx, span := tracing.StartOperation(ctx, op)

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}

	err := database.Translate(m.DB.WithContext(ctx).Transaction(fn))

	outcome := outcomeOf(err)
	monitoring.ObserveOperation(op, outcome, time.Since(start))
	if outcome == "error" || outcome == "busy" {
		logger.Log.Warn("Service operation failed", zap.String("op", op), zap.Error(err))
	}
	tracing.EndOperation(span, err)
	return err
}

func outcomeOf(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errDenied), errors.Is(err, util.ErrUnauthorized):
		return "denied"
	case errors.Is(err, util.ErrNotFound):
		return "not_found"
	case errors.Is(err, util.ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, util.ErrBusy):
		return "busy"
	case errors.As(err, &verrs), errors.Is(err, util.ErrInvalidRole):
		return "invalid"
	}
	return "error"
}

// denied converts errDenied into the boolean denial result.
func denied(err error) (bool, error) {
	if errors.Is(err, errDenied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// loadActor returns nil for a missing or deactivated user; callers treat nil as no capability.
func loadActor(tx *gorm.DB, users *repository.UserRepository, id uint) (*model.User, error) {
	actor, err := users.WithTx(tx).FindByID(id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsActive {
		return nil, nil
	}
	return actor, nil
}

// activeUser loads the user acting on their own records. A missing user is ErrNotFound, a
// deactivated one ErrUnauthorized.
func activeUser(tx *gorm.DB, users *repository.UserRepository, id uint) (*model.User, error) {
	user, err := users.WithTx(tx).FindByID(id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, util.ErrUnauthorized
	}
	return user, nil
}

// canManage is the owner-or-admin predicate used by every course-scoped mutation. Ownership
// only counts while the owner still holds the teacher role.
func canManage(actor *model.User, course *model.Course) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || (actor.IsTeacher() && course.TeacherID == actor.ID)
}
