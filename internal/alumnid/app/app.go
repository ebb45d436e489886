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

	httpapi "github.com/aussiebroadwan/alumni/internal/alumnid/http"
	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store/drivers/sqlite"
	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// totpIssuer is the account label shown in authenticator apps.
	totpIssuer = "Alumni"
)

// Application wires the development backend together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	hasher   *cryptox.PasswordHasher
	signer   *jwtx.EdDSASigner
	keys     *jwtx.KeySet
	verifier *jwtx.EdDSAVerifier
	media    *service.MediaStore

	// Services
	authService         *service.AuthService
	twoFactorService    *service.TwoFactorService
	resetService        *service.ResetService
	profileService      *service.ProfileService
	postService         *service.PostService
	forumService        *service.ForumService
	searchService       *service.SearchService
	messageService      *service.MessageService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "alumnid",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, keys, err := InitSigningKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer
	app.keys = keys
	app.verifier = jwtx.NewVerifierEdDSA(keys, cfg.Issuer, []string{cfg.Audience})

	media, err := service.NewMediaStore(cfg.MediaDir, "/media/")
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to prepare media directory: %w", err)
	}
	app.media = media

	app.initServices()

	if cfg.Seed {
		if err := app.seed(context.Background()); err != nil {
			_ = app.db.Close()
			return nil, err
		}
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the routed handler, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("alumni backend starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down alumni backend...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("alumni backend stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:      app.db,
		Hasher:     app.hasher,
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		Audience:   []string{app.cfg.Audience},
		AccessTTL:  app.cfg.AccessTTL,
		SessionTTL: app.cfg.SessionTTL,
	}
	app.twoFactorService = &service.TwoFactorService{Store: app.db, Issuer: totpIssuer}
	app.resetService = &service.ResetService{
		Store:  app.db,
		Hasher: app.hasher,
		Sender: service.LogCodeSender{Logger: app.logger},
	}
	app.profileService = &service.ProfileService{Store: app.db, Media: app.media}
	app.postService = service.NewPostService(app.db)
	app.forumService = &service.ForumService{Store: app.db}
	app.searchService = &service.SearchService{Store: app.db}
	app.messageService = &service.MessageService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(app.db, app.logger, app.cfg.HousekeepingInterval)
}

// seed loads the sample community when the database is still empty.
func (app *Application) seed(ctx context.Context) error {
	seeded, err := (&service.Seeder{Store: app.db, Policy: app.postService.Policy}).Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if seeded {
		app.logger.Info("sample data loaded")
	} else {
		app.logger.Info("database not empty, skipping sample data")
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	secret := []byte(app.cfg.SessionSecret)
	if len(secret) == 0 {
		generated, err := cryptox.GenerateToken(32)
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		secret = []byte(generated)
		app.logger.Warn("ALUMNI_SESSION_SECRET not set, session cookies will not survive a restart")
	}
	cookies := httpapi.NewSessionCookies(secret, app.cfg.SessionTTL, app.cfg.CookieSecure)

	app.router = httpapi.NewRouter(app.keys, app.verifier, BuildVersion, app.db, cookies, app.logger)
	app.router.MediaDir = app.cfg.MediaDir

	app.router.AuthService = app.authService
	app.router.TwoFactorService = app.twoFactorService
	app.router.ResetService = app.resetService
	app.router.ProfileService = app.profileService
	app.router.PostService = app.postService
	app.router.ForumService = app.forumService
	app.router.SearchService = app.searchService
	app.router.MessageService = app.messageService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
