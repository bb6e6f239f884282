package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/hydrationdev/hydration-os/pkg/config"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/logger"
)

// MaybeRunDev applies pending embedded migrations on boot, but only in dev with
// HYDRATION_AUTO_MIGRATE set. Other environments run cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	pending, err := Pending(ctx, sqlDB)
	if err != nil {
		return err
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "pending_migrations": len(pending)})
	if len(pending) == 0 {
		logg.Debug(ctx, "migrations.up_to_date")
		return nil
	}

	logg.Info(ctx, "migrations.auto_apply")
	if err := Run(ctx, sqlDB, "up"); err != nil {
		return err
	}
	logg.Info(ctx, "migrations.applied")
	return nil
}

// Pending lists embedded versions newer than the database's current version.
func Pending(ctx context.Context, sqlDB *sql.DB) ([]int64, error) {
	if err := prepare(); err != nil {
		return nil, err
	}
	current, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}
	versions, err := EmbeddedVersions()
	if err != nil {
		return nil, err
	}
	var pending []int64
	for _, raw := range versions {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse embedded version %q: %w", raw, err)
		}
		if v > current {
			pending = append(pending, v)
		}
	}
	return pending, nil
}
