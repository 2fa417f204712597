package database_test

import (
	"classroom_backend/internal/testutil"
	"classroom_backend/internal/util"
	"classroom_backend/pkg/database"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CheckSchema(t *testing.T) {
	ctx := context.Background()
	db, err := database.InitDB(testutil.DBConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.ErrorIs(t, database.CheckSchema(ctx, db), database.ErrSchemaOutdated)

	require.NoError(t, database.Migrate(ctx, db))
	assert.NoError(t, database.CheckSchema(ctx, db))

	// 重复执行不应报错
	require.NoError(t, database.Migrate(ctx, db))

	for _, table := range []string{"users", "courses", "class_members", "lessons", "assignments",
		"submissions", "quizzes", "attempts", "deleted_users", "deleted_courses", "resources"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSchema_Constraints(t *testing.T) {
	db := testutil.PrepareDB(t)

	insert := func(email, role string) error {
		return database.Translate(db.Exec(
			"INSERT INTO users (name, email, password_hash, role, is_active, created_at) VALUES (?, ?, 'x', ?, 1, CURRENT_TIMESTAMP)",
			"n", email, role).Error)
	}

	require.NoError(t, insert("a@example.com", "student"))
	assert.ErrorIs(t, insert("a@example.com", "teacher"), util.ErrDuplicateKey)
	assert.Error(t, insert("b@example.com", "janitor"), "role check")

	err := db.Exec("INSERT INTO courses (title, description, code, teacher_id, created_at) VALUES ('t', '', 'ABC123', 9999, CURRENT_TIMESTAMP)").Error
	assert.Error(t, err, "foreign keys are enforced")
}
