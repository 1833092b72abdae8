// Package app wires configuration, storage, services and the HTTP server
// into a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	authhttp "github.com/signetlabs/signet/internal/auth/http"
	"github.com/signetlabs/signet/internal/auth/provider"
	"github.com/signetlabs/signet/internal/auth/service"
	"github.com/signetlabs/signet/internal/auth/store"
	"github.com/signetlabs/signet/internal/auth/store/drivers/sqlite"
	"github.com/signetlabs/signet/pkg/jwtx"
	"github.com/signetlabs/signet/pkg/slogx"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type App struct {
	cfg    Config
	logger *slog.Logger

	store        store.Store
	tokens       *service.TokenService
	housekeeping *service.HousekeepingService

	server *http.Server
}

func New(cfg Config) (*App, error) {
	logger := slogx.New(slogx.Config{
		Service: "signet",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	a := &App{cfg: cfg, logger: logger}

	if err := a.initDatabase(); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := a.initServices(); err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}

	return a, nil
}

func (a *App) initDatabase() error {
	st, err := sqlite.NewStore(a.cfg.DatabaseFile)
	if err != nil {
		return err
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return err
	}

	a.store = st
	return nil
}

func (a *App) initServices() error {
	signer, err := jwtx.NewSignerHS256(a.cfg.TokenSecret)
	if err != nil {
		return err
	}
	verifier := jwtx.NewVerifierHS256(a.cfg.TokenSecret, a.cfg.Issuer, 30*time.Second)

	revoked := service.NewMemoryRevocationStore()
	a.tokens = service.NewTokenService(signer, verifier, revoked, a.cfg.Issuer, a.cfg.TokenTTL)
	a.housekeeping = service.NewHousekeepingService(revoked, a.cfg.HousekeepingInterval, a.logger)

	registry := provider.NewRegistry(a.cfg.Providers)
	oauth := service.NewOAuthService(
		registry,
		provider.NewHTTPClient(nil),
		service.NewIdentityResolver(a.store),
		a.tokens,
	)
	local := service.NewLocalService(a.store, a.tokens)

	router := authhttp.NewRouter(local, oauth, a.tokens, a.store, a.logger, a.cfg.SecureCookies)
	a.server = &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.logger.Info("services initialized",
		slog.Any("providers", registry.Names()),
		slog.Duration("token_ttl", a.cfg.TokenTTL))

	return nil
}

// Run starts the HTTP server and background housekeeping, blocking until
// ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	hkCtx, cancelHousekeeping := context.WithCancel(context.Background())
	defer cancelHousekeeping()
	go a.housekeeping.Run(hkCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return a.shutdown()
	}
}

func (a *App) shutdown() error {
	a.logger.Info("shutting down", slog.Duration("grace_period", a.cfg.ShutdownGracePeriod))

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	err := a.server.Shutdown(ctx)
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	return err
}
