package app

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

	httpapi "github.com/aussiebroadwan/futurgenie/internal/invites/http"
	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/futurgenie/pkg/cryptox"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...app.BuildVersion=".
var BuildVersion = "v0.1.0"

// Application encapsulates the invitation service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       *sqlite.Store
	sealer   *cryptox.Sealer
	verifier *SessionVerifier

	// Services
	identityService     *service.IdentityService
	invitationService   *service.InvitationService
	onboardingService   *service.OnboardingService
	classroomService    *service.ClassroomService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router

	// cancels background loops (JWKS refresh)
	stopBackground context.CancelFunc
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "invites-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSealer(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	verifier, err := InitVerifier(context.Background(), app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session verifier: %w", err)
	}
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler, used by tests that drive the
// application without binding a port.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	go app.verifier.refreshLoop(ctx, app.logger)

	app.housekeepingService.Start()

	app.logger.Info("invites service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopBackground()
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down invites service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.stopBackground != nil {
		app.stopBackground()
	}
	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("invites service stopped")
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", dsn)
	}
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initSealer loads the key that encrypts stored invitation secrets
func (app *Application) initSealer() error {
	sealer, err := cryptox.LoadSealer(app.cfg.MasterKeyPath, app.cfg.MasterKey)
	if err != nil {
		return fmt.Errorf("failed to load master key: %w", err)
	}
	if sealer.Ephemeral() {
		app.logger.Warn("no master key configured, using an ephemeral key; " +
			"outstanding invitations will be reissued after a restart")
	}
	app.sealer = sealer
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.identityService = &service.IdentityService{Store: app.db}
	app.invitationService = &service.InvitationService{
		Store:  app.db,
		Sealer: app.sealer,
		TTL:    app.cfg.TokenTTL,
	}
	app.onboardingService = &service.OnboardingService{
		Store: app.db,
		Token: app.cfg.OnboardingToken,
	}
	app.classroomService = &service.ClassroomService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.ExpiredRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.PublicBaseURL = app.cfg.PublicBaseURL
	router.CORSOrigins = app.cfg.CORSOrigins
	router.VerifierReady = app.verifier.Ready
	router.Limits = app.cfg.RateLimits

	// Wire services to router
	router.IdentityService = app.identityService
	router.InvitationService = app.invitationService
	router.OnboardingService = app.onboardingService
	router.ClassroomService = app.classroomService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
