package database

import (
	"classroom_backend/pkg/logger"
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

var ErrSchemaOutdated = errors.New("database schema is behind the embedded migrations, run with -migrate")

func provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	dialect, dir := goose.DialectSQLite3, "migrations/sqlite"
	if db.Dialector.Name() == DriverMySQL {
		dialect, dir = goose.DialectMySQL, "migrations/mysql"
	}
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, sqlDB, sub)
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *gorm.DB) error {
	p, err := provider(db)
	if err != nil {
		return errors.Wrap(err, "creating migration provider")
	}
	results, err := p.Up(ctx)
	if err != nil {
		return errors.Wrap(err, "migrating database")
	}
	for _, r := range results {
		logger.Log.Info("Applied migration",
			zap.Int64("version", r.Source.Version),
			zap.Duration("duration", r.Duration))
	}
	return nil
}

// CheckSchema fails with ErrSchemaOutdated when migrations are pending.
func CheckSchema(ctx context.Context, db *gorm.DB) error {
	p, err := provider(db)
	if err != nil {
		return errors.Wrap(err, "creating migration provider")
	}
	pending, err := p.HasPending(ctx)
	if err != nil {
		return errors.Wrap(err, "reading schema version")
	}
	if pending {
		current, _ := p.GetDBVersion(ctx)
		sources := p.ListSources()
		return fmt.Errorf("%w (at %d, want %d)", ErrSchemaOutdated, current, sources[len(sources)-1].Version)
	}
	return nil
}
