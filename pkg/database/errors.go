package database

import (
	"classroom_backend/internal/util"
	"context"
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// Translate maps engine errors onto the package-wide sentinels. The original error stays in
// the chain so callers can still log the engine message.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return join(util.ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return join(util.ErrBusy, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return join(util.ErrDuplicateKey, err)
		case sqliteErr.Code == sqlite3.ErrBusy, sqliteErr.Code == sqlite3.ErrLocked:
			return join(util.ErrBusy, err)
		}
		return err
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return join(util.ErrDuplicateKey, err)
		case mysqlLockWaitTimeout, mysqlDeadlock:
			return join(util.ErrBusy, err)
		}
	}
	return err
}

func join(sentinel, cause error) error {
	if errors.Is(cause, sentinel) {
		return cause
	}
	return errors.Join(sentinel, cause)
}
