// Package server wires the application together: configuration, database,
// object store, external clients, services, and the HTTP surface, plus
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avcastro/vaultbox/internal/cryptox"
	"github.com/avcastro/vaultbox/internal/logging"
	"github.com/avcastro/vaultbox/internal/server/config"
	"github.com/avcastro/vaultbox/internal/server/httpapi"
	"github.com/avcastro/vaultbox/internal/server/identity"
	"github.com/avcastro/vaultbox/internal/server/objectstore"
	"github.com/avcastro/vaultbox/internal/server/payments"
	"github.com/avcastro/vaultbox/internal/server/repositories/repomanager"
	"github.com/avcastro/vaultbox/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec, err := newCodec(cfg)
	if err != nil {
		return nil, fmt.Errorf("codec init error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.Config{
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	provider := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityServiceKey)
	gateway := payments.NewPayPalClient(payments.PayPalConfig{
		BaseURL:      cfg.PayPalBaseURL,
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		ReturnURL:    cfg.FrontendURL + "/payments/execute",
		CancelURL:    cfg.FrontendURL + "/payments/cancel",
	})

	fileService := services.NewFileService(db, rm, store, codec, provider, logger)
	userService := services.NewUserService(db, rm, provider, store, logger)
	subscriptionService := services.NewSubscriptionService(db, rm, gateway, logger)
	contactService := services.NewContactService(db, rm, logger)

	api := httpapi.NewServer(fileService, userService, subscriptionService, contactService,
		[]byte(cfg.JWTSecret), logger)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

func newCodec(cfg *config.Config) (*cryptox.Codec, error) {
	if cfg.EncryptionKey != "" {
		return cryptox.NewCodec(cfg.EncryptionKey)
	}
	return cryptox.NewCodecFromPassphrase(cfg.EncryptionPassphrase, cfg.EncryptionSalt)
}

// Run starts the HTTP server and blocks until the context is canceled or a
// termination signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "server listening", "addr", app.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}
