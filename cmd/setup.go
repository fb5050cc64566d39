package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/vasync/internal/shared"
	"github.com/desertthunder/vasync/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the directory tables in a local SQLite database.
//
// The production schema is owned by the directory application, so MySQL targets are refused.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	if err := requireSQLite(config); err != nil {
		return err
	}

	r.logger.Info("initializing database", "url", config.Database.URL)

	db, closeDB, err := r.openDatabase(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer closeDB()

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if len(applied) == 0 {
		r.writePlain("%s\n", ui.Muted("Database is up to date."))
		return nil
	}
	r.logger.Infof("setup complete for database: %v", config.Database.URL)
	r.writePlain("%s\n", ui.Success(fmt.Sprintf("Applied %d migrations %v", len(applied), applied)))
	return nil
}

// SetupRollback rolls back the most recent migration of a local SQLite database.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig()
	if err != nil {
		return err
	}

	if err := requireSQLite(config); err != nil {
		return err
	}

	db, closeDB, err := r.openDatabase(ctx, config)
	if err != nil {
		return err
	}
	defer closeDB()

	version, err := shared.RollbackMigration(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.logger.Info("rolled back migration", "version", version)
	r.writePlain("%s\n", ui.Success(fmt.Sprintf("Rolled back migration %04d", version)))
	return nil
}

// SetupConfig writes the config file from the built-in template. An existing file is left untouched.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	if _, err := os.Stat(path); err == nil {
		r.logger.Warn("config file already exists", "path", path)
		r.writePlain("%s\n", ui.Muted("Config already exists at "+path))
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("%s\n", ui.Success("Config written to "+path))
	r.writePlainln("Next steps:")
	r.writePlain("1. Set database.url in %s, or export %s\n", path, shared.DatabaseURLEnv)
	r.writePlain("2. Run 'vasync setup database' to create a local SQLite database\n")
	return nil
}

func requireSQLite(config *shared.Config) error {
	target, err := shared.ParseDatabaseURL(config.Database.URL)
	if err != nil {
		return err
	}
	if target.Driver != shared.DriverSQLite {
		return fmt.Errorf("%w: setup only manages local sqlite databases, got %s", shared.ErrInvalidConfig, target)
	}
	return nil
}
