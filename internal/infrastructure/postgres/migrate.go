package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/internal/config"
)

// RunMigrations executes DB migrations when enabled in configuration.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(cfg.Migrations.Path))
	m, err := migrate.NewWithDatabaseInstance(sourceURL, cfg.Database.Name, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	logger.Info("database migrations applied")
	return nil
}

// ApplyCascadePolicy aligns the tasks→users foreign key with the
// configured delete policy. The migration ships with cascade enabled, so
// only the opt-out needs a rewrite; the statement is idempotent either way.
func ApplyCascadePolicy(ctx context.Context, pool *pgxpool.Pool, cfg config.DatabaseConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	action := "CASCADE"
	if !cfg.CascadeDelete {
		action = "NO ACTION"
	}

	stmt := fmt.Sprintf(`
	ALTER TABLE tasks
	DROP CONSTRAINT IF EXISTS tasks_user_id_fkey,
	ADD CONSTRAINT tasks_user_id_fkey
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE %s
	`, action)

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("apply cascade policy: %w", err)
	}

	logger.Info("task ownership delete policy applied", zap.Bool("cascade", cfg.CascadeDelete))
	return nil
}
