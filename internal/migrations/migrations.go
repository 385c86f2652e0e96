package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// Run applies the embedded migrations. command is one of up, down, status.
func Run(ctx context.Context, db *sql.DB, driver string, command string) error {
	goose.SetBaseFS(files)
	if err := goose.SetDialect(driver); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, ".")
	case "down":
		return goose.DownContext(ctx, db, ".")
	case "status":
		return goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
