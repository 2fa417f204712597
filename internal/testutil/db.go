// Package testutil prepares migrated throwaway databases for package tests.
package testutil

import (
	"classroom_backend/internal/config"
	"classroom_backend/internal/model"
	"classroom_backend/pkg/database"
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the clear-text password of every user made by CreateUser.
const Password = "secret123"

var (
	passwordHash []byte
	userSeq      atomic.Int64
)

func init() {
	// 只计算一次哈希，避免每个测试用户都跑 bcrypt
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
}

func DBConfig(t *testing.T) *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:      database.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "test.db"),
		LockTimeout: 2 * time.Second,
	}
}

// PrepareDB opens a fresh sqlite database under t.TempDir() and applies every migration.
func PrepareDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.InitDB(DBConfig(t))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active user directly, bypassing validation.
func CreateUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()

	n := userSeq.Add(1)
	user := &model.User{
		Name:         fmt.Sprintf("%s %d", role, n),
		Email:        fmt.Sprintf("%s%d@example.com", role, n),
		PasswordHash: string(passwordHash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Count returns the number of rows in table matching the optional condition.
func Count(t *testing.T, db *gorm.DB, table string, query string, args ...interface{}) int64 {
	t.Helper()

	q := db.Table(table)
	if query != "" {
		q = q.Where(query, args...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}
