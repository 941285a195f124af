package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/fdg312/meal-planner/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Commands поддерживаемые cmd/migrate и автомиграцией при старте.
var Commands = []string{"up", "status", "down", "version"}

func IsCommand(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

// Run применяет goose-команду. Пустой migrationsDir означает встроенные миграции.
func Run(ctx context.Context, command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if !IsCommand(command) {
		return fmt.Errorf("unsupported migrate command %q", command)
	}

	fsys, dir := migrationSource(migrationsDir)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

func migrationSource(migrationsDir string) (fs.FS, string) {
	if migrationsDir == "" {
		return migrations.FS, "."
	}
	return os.DirFS(migrationsDir), "."
}
