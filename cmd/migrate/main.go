package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"marketly-backend/config"
	"marketly-backend/logging"
	"marketly-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var errUsage = errors.New("usage")

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			usage()
		} else {
			slog.Error("migrate failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	command := args[0]
	switch command {
	case "up", "down", "status", "version", "redo", "reset":
	default:
		return errUsage
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrations.Run(ctx, db, command, args[1:]...); err != nil {
		return err
	}
	logger.Info("migrations: done", "command", command)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command>

Commands:
  up        apply all pending migrations
  down      roll back the most recent migration
  redo      roll back and re-apply the most recent migration
  reset     roll back every migration
  status    print the status of each migration
  version   print the current schema version

Environment:
  DATABASE_URL   Postgres connection string
  LOG_LEVEL      debug, info, warn or error
  LOG_FORMAT     text or json`)
}
