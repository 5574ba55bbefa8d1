package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketly-backend/auth"
	"marketly-backend/config"
	"marketly-backend/handlers"
	"marketly-backend/logging"
	"marketly-backend/migrations"
	"marketly-backend/repository"
	"marketly-backend/service"
	"marketly-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			slog.Warn("no .env file found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("postgres connection established")

	if err := migrations.Up(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	archive, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	logger.Info("storage initialized", "type", cfg.Storage.Type)

	geminiClient, err := initGemini(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		return fmt.Errorf("init gemini: %w", err)
	}
	defer geminiClient.Close()

	store := repository.NewPostgresStore(pool)
	tokens := auth.NewTokenIssuer(cfg.JWTSecretKey, cfg.TokenTTL)

	userService := service.NewUserService(
		service.UserWithStore(store),
		service.UserWithLogger(logger),
	)

	generator := service.NewContentGenerator(
		service.NewGeminiTextGenerator(geminiClient, cfg.GeminiModel),
		cfg.GenerationTimeout,
	)

	campaignOpts := []service.CampaignServiceOption{
		service.CampaignWithStore(store),
		service.CampaignWithGenerator(generator),
		service.CampaignWithLogger(logger),
	}
	if archive != nil {
		campaignOpts = append(campaignOpts, service.CampaignWithArchive(archive))
	}
	campaignService := service.NewCampaignService(campaignOpts...)

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth: handlers.NewAuthHandler(userService, tokens, logger),
		Campaigns: handlers.NewCampaignHandler(campaignService, handlers.GenerationDefaults{
			Platform: cfg.DefaultPlatform,
			Tone:     cfg.DefaultTone,
		}, logger),
		Health:         handlers.NewHealthHandler(store, logger),
		Tokens:         tokens,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func initGemini(ctx context.Context, apiKey string, logger *slog.Logger) (*genai.Client, error) {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	logger.Info("gemini client initialized")
	return client, nil
}
