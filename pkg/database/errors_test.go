package database

import (
	"classroom_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, util.ErrNotFound},
		{"wrapped not found", fmt.Errorf("finding user: %w", gorm.ErrRecordNotFound), util.ErrNotFound},
		{"deadline", context.DeadlineExceeded, util.ErrBusy},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, util.ErrBusy},
		{"sqlite locked", sqlite3.Error{Code: sqlite3.ErrLocked}, util.ErrBusy},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, util.ErrDuplicateKey},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, util.ErrDuplicateKey},
		{"mysql duplicate", &mysqldriver.MySQLError{Number: 1062}, util.ErrDuplicateKey},
		{"mysql lock wait", &mysqldriver.MySQLError{Number: 1205}, util.ErrBusy},
		{"mysql deadlock", pkgerrors.Wrap(&mysqldriver.MySQLError{Number: 1213}, "update"), util.ErrBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "cause stays in the chain")
		})
	}
}

func TestTranslate_PassThrough(t *testing.T) {
	assert.NoError(t, Translate(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, Translate(plain))

	fk := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}
	got := Translate(fk)
	assert.NotErrorIs(t, got, util.ErrDuplicateKey)
	assert.NotErrorIs(t, got, util.ErrBusy)

	other := &mysqldriver.MySQLError{Number: 1146}
	assert.Equal(t, error(other), Translate(other))
}

func TestTranslate_Idempotent(t *testing.T) {
	once := Translate(sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.Equal(t, once, Translate(once))
}
