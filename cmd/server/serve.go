package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mailcraft-backend/auth"
	"mailcraft-backend/config"
	"mailcraft-backend/generator"
	"mailcraft-backend/handlers"
	"mailcraft-backend/logging"
	"mailcraft-backend/repository"
	"mailcraft-backend/service"
	"mailcraft-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	// Initialize database connections
	db, err := initPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	defer db.Close()
	logger.Info("postgres connection established")

	// Initialize archive storage
	archive, err := storage.NewStorage(ctx, storage.StorageConfig{
		Type:       storage.StorageType(cfg.Archive.Type),
		LocalPath:  cfg.Archive.LocalPath,
		S3Bucket:   cfg.Archive.S3Bucket,
		S3Region:   cfg.Archive.S3Region,
		S3Endpoint: cfg.Archive.S3Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize archive storage: %w", err)
	}
	logger.Info("archive storage initialized", zap.String("type", cfg.Archive.Type))

	gen, closeGen, err := initGenerator(ctx, cfg.Generator)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}
	defer closeGen()
	logger.Info("generator initialized", zap.String("provider", gen.Name()))

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, auth.WithTTL(cfg.Auth.TokenTTL))
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	emailRepo := repository.NewEmailRepository(db)

	// Initialize services
	authService := service.NewAuthService(
		service.WithUserStore(userRepo),
		service.WithPasswordHasher(auth.NewBcryptHasher()),
		service.WithTokenIssuer(tokens),
		service.WithAuthLogger(logger.Named("auth")),
	)

	emailOpts := []service.EmailServiceOption{
		service.WithEmailStore(emailRepo),
		service.WithGenerator(gen),
		service.WithEmailLogger(logger.Named("email")),
	}
	if archive != nil {
		emailOpts = append(emailOpts, service.WithArchive(archive))
	}
	emailService := service.NewEmailService(emailOpts...)

	if !cfg.Auth.ProtectListings {
		logger.Warn("listing and favorite routes are unauthenticated; set PROTECT_LISTINGS=true to gate them")
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterConfig{
		Users:           handlers.NewUserHandler(authService, logger.Named("http")),
		Emails:          handlers.NewEmailHandler(emailService, logger.Named("http")),
		Tokens:          tokens,
		DB:              db,
		Logger:          logger.Named("http"),
		ProtectListings: cfg.Auth.ProtectListings,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
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

// initGenerator builds the configured generation backend. The returned
// func releases its resources.
func initGenerator(ctx context.Context, cfg config.GeneratorConfig) (generator.Generator, func(), error) {
	policy := generator.RetryPolicy{MaxRetries: uint64(cfg.MaxRetries)}

	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Close() }
		return generator.NewGeminiGenerator(client, cfg.GeminiModel, policy), closeFn, nil
	default:
		gen := generator.NewHTTPGenerator(cfg.URL, cfg.Timeout, generator.WithHTTPRetry(policy))
		return gen, func() {}, nil
	}
}
