package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	database_client "github.com/init-pkg/sheet-relay/internal/clients/database"
	"github.com/init-pkg/sheet-relay/internal/config"
	"github.com/init-pkg/sheet-relay/internal/migrations"
	_ "github.com/lib/pq"
)

func main() {
	var (
		cfg     = config.MustLoad()
		log     = slog.New(slog.NewTextHandler(os.Stdout, nil))
		command = "up"
	)
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(cfg.Infrastructure.Db, command); err != nil {
		log.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	log.Info("migrations done", "command", command, "driver", cfg.Infrastructure.Db.Driver)
}

func run(dbCfg config.Db, command string) error {
	db, err := sql.Open(dbCfg.Driver, database_client.DSN(&dbCfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return migrations.Run(context.Background(), db, dbCfg.Driver, command)
}
