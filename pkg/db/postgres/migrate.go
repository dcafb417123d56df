package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrOpenMigrationSource     = "failed to open migration source"
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
)

// Migrate применяет миграции из fsys (каталог dir) к базе по dsn.
// Отсутствие новых миграций не считается ошибкой.
func Migrate(ctx context.Context, dsn string, fsys fs.FS, dir string) error {
	log := logger.Log(ctx)

	src, err := iofs.New(fsys, dir)
	if err != nil {
		log.Error(ctx, ErrOpenMigrationSource, zap.Error(err), zap.String("dir", dir))
		return fmt.Errorf("%s: %w", ErrOpenMigrationSource, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	version, dirty, _ := m.Version()
	log.Info(ctx, LogMigrationsApplied, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
