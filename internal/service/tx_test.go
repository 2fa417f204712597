package service

import (
	"classroom_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTxManager_RollsBackOnError(t *testing.T) {
	e := setup(t)
	tx := NewTxManager(e.db, time.Second)
	boom := errors.New("boom")

	err := tx.Run(e.ctx, "test", func(tx *gorm.DB) error {
		require.NoError(t, tx.Exec("INSERT INTO users (name, email, password_hash, role) VALUES ('a', 'a@x.io', 'x', 'student')").Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, e.count(t, "users", ""))
}

func TestTxManager_LockTimeoutIsBusy(t *testing.T) {
	e := setup(t)

	// 占住写锁，第二个事务只能等到超时
	holder := e.db.Begin()
	require.NoError(t, holder.Error)
	require.NoError(t, holder.Exec("INSERT INTO users (name, email, password_hash, role) VALUES ('h', 'h@x.io', 'x', 'student')").Error)
	defer holder.Rollback()

	tx := NewTxManager(e.db, 200*time.Millisecond)
	err := tx.Run(context.Background(), "test", func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO users (name, email, password_hash, role) VALUES ('w', 'w@x.io', 'x', 'student')").Error
	})
	assert.ErrorIs(t, err, util.ErrBusy)
	assert.Equal(t, "busy", outcomeOf(err))
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, "ok", outcomeOf(nil))
	assert.Equal(t, "denied", outcomeOf(errDenied))
	assert.Equal(t, "denied", outcomeOf(util.ErrUnauthorized))
	assert.Equal(t, "not_found", outcomeOf(util.ErrNotFound))
	assert.Equal(t, "duplicate", outcomeOf(util.ErrDuplicateKey))
	assert.Equal(t, "invalid", outcomeOf(util.ErrInvalidRole))
	assert.Equal(t, "error", outcomeOf(errors.New("x")))
}

func TestDenied(t *testing.T) {
	ok, err := denied(nil)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = denied(errDenied)
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = denied(util.ErrNotFound)
	assert.False(t, ok)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
