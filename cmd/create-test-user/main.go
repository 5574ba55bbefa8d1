package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"marketly-backend/config"
	"marketly-backend/logging"
	"marketly-backend/migrations"
	"marketly-backend/repository"
	"marketly-backend/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	testName     = "Test User"
	testEmail    = "test@marketly.com"
	testPassword = "123456"
)

func main() {
	if err := run(); err != nil {
		slog.Error("create test user failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
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

	if err := migrations.Up(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	users := service.NewUserService(
		service.UserWithStore(repository.NewPostgresStore(pool)),
		service.UserWithLogger(logger),
	)

	user, err := users.Register(ctx, service.RegisterRequest{
		Name:     testName,
		Email:    testEmail,
		Password: testPassword,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		logger.Info("test user already exists", "email", testEmail)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("✅ Test user created successfully!\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", testEmail)
	fmt.Printf("   Password: %s\n", testPassword)
	fmt.Printf("   Name: %s\n", testName)
	return nil
}
