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

	httpapi "github.com/aussiebroadwan/teamauth/internal/auth/http"
	"github.com/aussiebroadwan/teamauth/internal/auth/mail"
	"github.com/aussiebroadwan/teamauth/internal/auth/oidc"
	"github.com/aussiebroadwan/teamauth/internal/auth/service"
	"github.com/aussiebroadwan/teamauth/internal/auth/store"
	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/teamauth/pkg/cryptox"
	"github.com/aussiebroadwan/teamauth/pkg/httpx"
	"github.com/aussiebroadwan/teamauth/pkg/jwtx"
	"github.com/aussiebroadwan/teamauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  service.Clock

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	hasher     *cryptox.Hasher
	mailer     mail.Sender
	google     *oidc.GoogleVerifier // nil when google sign-in is off

	// Services
	tokenService        *service.TokenService
	authService         *service.AuthService
	inviteService       *service.InviteService
	subscriptionService *service.SubscriptionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:   cfg,
		clock: service.SystemClock{},
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initGoogle(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, for tests that drive the wired application
// without a listener.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "addr", app.cfg.Addr, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
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
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.google != nil {
		app.google.Close()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		app.cfg.DBPath,
	)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		_ = db.Close()
		return err
	}
	app.logger.Info("database migrations applied successfully", "path", app.cfg.DBPath, "schema_version", version)
	return nil
}

// initCrypto loads the pepper and the token signing key
func (app *Application) initCrypto() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	if app.hasher, err = cryptox.NewHasher(cryptox.DefaultParams, pepper); err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	if app.keyManager, err = InitAuthKeys(app.cfg, app.clock, app.logger); err != nil {
		return fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	return nil
}

func (app *Application) initMail() error {
	renderer, err := mail.NewRenderer(mail.Branding{
		AppName:        app.cfg.AppName,
		CompanyName:    app.cfg.CompanyName,
		CompanyAddress: app.cfg.CompanyAddress,
		LogoURL:        app.cfg.LogoURL,
		SupportEmail:   app.cfg.SupportEmail,
		FrontendURL:    app.cfg.FrontendURL,
	})
	if err != nil {
		return err
	}

	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no smtp host configured, emails will only be logged")
		app.mailer = mail.NewLogSender(renderer)
		return nil
	}

	app.mailer = mail.NewSMTPSender(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	}, renderer)
	app.logger.Info("smtp delivery enabled", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort)
	return nil
}

func (app *Application) initGoogle() error {
	if app.cfg.GoogleClientID == "" {
		return nil
	}

	v, err := oidc.NewGoogleVerifier(oidc.GoogleOptions{
		ClientID: app.cfg.GoogleClientID,
		Logger:   app.logger,
		Leeway:   app.cfg.TokenLeeway,
		Now:      app.clock.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize google sign-in: %w", err)
	}
	app.google = v
	app.logger.Info("google sign-in enabled")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	links := service.Links{FrontendURL: app.cfg.FrontendURL}

	app.tokenService = &service.TokenService{
		Keys:       app.keyManager,
		Store:      app.db,
		Clock:      app.clock,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.authService = &service.AuthService{
		Store:               app.db,
		Tokens:              app.tokenService,
		Hasher:              app.hasher,
		Mailer:              app.mailer,
		Clock:               app.clock,
		Links:               links,
		ConcealUnknownEmail: app.cfg.ConcealUnknownEmail,
		VerificationTTL:     app.cfg.VerificationTTL,
		ResetTTL:            app.cfg.ResetTTL,
	}
	if app.google != nil {
		app.authService.Google = app.google
	}

	app.inviteService = &service.InviteService{
		Store:  app.db,
		Hasher: app.hasher,
		Mailer: app.mailer,
		Clock:  app.clock,
		Links:  links,
		TTL:    app.cfg.InviteTTL,
	}

	app.subscriptionService = &service.SubscriptionService{
		Store: app.db,
		Clock: app.clock,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.inviteService,
		app.clock,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.keyManager, app.db, BuildVersion, app.logger)

	router.Tokens = app.tokenService
	router.Auth = app.authService
	router.Invites = app.inviteService
	router.Subscriptions = app.subscriptionService
	router.Housekeeping = app.housekeepingService
	router.Cookies = httpapi.CookieConfig{
		Secure: app.cfg.CookieSecure,
		Domain: app.cfg.CookieDomain,
	}
	if !app.cfg.RateLimit {
		app.logger.Warn("rate limiting disabled")
		router.Limiters = httpx.NoLimits
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
