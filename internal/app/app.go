package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"donorhub/config"
	"donorhub/internal/adapters/auth"
	"donorhub/internal/adapters/donorfeed"
	"donorhub/internal/cache"
	router "donorhub/internal/delivery/http"
	"donorhub/internal/delivery/http/controllers"
	"donorhub/internal/delivery/http/middleware"
	"donorhub/internal/domain"
	"donorhub/internal/repository/postgres"
	"donorhub/internal/services"

	"github.com/redis/go-redis/v9"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	feedTimeout       = 30 * time.Second
)

// repositories groups the postgres stores shared by the server and the seeder.
type repositories struct {
	events    domain.EventRepository
	links     domain.EventFundraiserRepository
	attendees domain.EventAttendeeRepository
	donors    domain.DonorRepository
	users     domain.UserRepository
	comments  domain.CommentRepository
	tasks     domain.TaskRepository
}

func newRepositories(db *sql.DB) repositories {
	return repositories{
		events:    postgres.NewEventRepository(db),
		links:     postgres.NewEventFundraiserRepository(db),
		attendees: postgres.NewEventAttendeeRepository(db),
		donors:    postgres.NewDonorRepository(db),
		users:     postgres.NewUserRepository(db),
		comments:  postgres.NewCommentRepository(db),
		tasks:     postgres.NewTaskRepository(db),
	}
}

type App struct {
	cfg        *config.Config
	log        *slog.Logger
	db         *sql.DB
	rdb        *redis.Client
	httpServer *http.Server
}

// New connects the stores, applies migrations and assembles the HTTP server.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	if err := a.initDB(); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := postgres.Migrate(a.db); err != nil {
		a.db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	a.log.Info("migrations applied")

	a.initCache()
	a.initServer()
	return a, nil
}

func (a *App) initDB() error {
	db, err := postgres.Open(a.cfg.DBUrl)
	if err != nil {
		return err
	}
	a.db = db
	a.log.Info("database connected")
	return nil
}

// initCache connects redis. The task ledger runs store-only when redis is unreachable.
func (a *App) initCache() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()
	rdb, err := cache.NewRedisClient(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB, a.log)
	if err != nil {
		a.log.Warn("redis unavailable, task cache disabled", "addr", a.cfg.RedisAddr, "err", err)
		return
	}
	a.rdb = rdb
}

func (a *App) taskCache() domain.TaskCache {
	if a.rdb == nil {
		return nil
	}
	return cache.NewTaskCache(a.rdb, cache.DefaultTaskTTL)
}

func (a *App) initServer() {
	repos := newRepositories(a.db)
	timeout := a.cfg.RequestTimeout

	hasher := auth.NewBcryptHasher(a.cfg.BcryptCost)
	issuer := auth.NewJWTIssuer(a.cfg.JWTSecret)
	userService := services.NewUserService(repos.users, hasher, issuer, a.cfg.JWTExpiry, timeout)

	invitationService := services.NewInvitationService(repos.events, repos.links, repos.donors, repos.attendees, a.log, timeout)
	taskService := services.NewTaskService(repos.tasks, a.taskCache(), a.log, timeout)

	c := router.Controllers{
		Event:           controllers.NewEventController(a.log, services.NewEventService(repos.events, repos.links, a.log, timeout)),
		EventFundraiser: controllers.NewEventFundraiserController(a.log, services.NewEventFundraiserService(repos.links, timeout)),
		EventAttendee:   controllers.NewEventAttendeeController(a.log, services.NewEventAttendeeService(repos.attendees, timeout)),
		Donor:           controllers.NewDonorController(a.log, services.NewDonorService(repos.donors, timeout)),
		User:            controllers.NewUserController(a.log, userService),
		Comment:         controllers.NewCommentController(a.log, services.NewCommentService(repos.comments, timeout)),
		Invitation:      controllers.NewInvitationController(a.log, invitationService),
		Task:            controllers.NewTaskController(a.log, taskService),
		Auth:            controllers.NewAuthController(a.log, userService),
	}

	var protect func(http.HandlerFunc) http.HandlerFunc
	if a.cfg.AuthRequired {
		protect = middleware.RequireAuth(auth.NewJWTVerifier(a.cfg.JWTSecret), a.log)
	}
	mux := router.NewRouter(c, protect)

	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router.Wrap(mux, a.log, a.cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting", "addr", a.httpServer.Addr, "auth_required", a.cfg.AuthRequired)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		a.close()
		return err
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.log.Info("HTTP server stopped")

	if err := a.close(); err != nil {
		return err
	}
	a.log.Info("app stopped")
	return nil
}

func (a *App) close() error {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("close redis", "err", err)
		}
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	a.log.Info("database connection closed")
	return nil
}

// MigrateOnly applies pending migrations and exits.
func MigrateOnly(cfg *config.Config, log *slog.Logger) error {
	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

// Seed imports fundraisers and donors from the external feed.
func Seed(ctx context.Context, cfg *config.Config, log *slog.Logger) (*domain.SeedResult, error) {
	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return nil, err
	}

	repos := newRepositories(db)
	feed := donorfeed.NewHTTPFeed(&http.Client{Timeout: feedTimeout}, cfg.DonorFeedURL, cfg.FundraiserFeedURL)
	seeder := services.NewSeeder(feed, repos.users, repos.donors, log, cfg.DonorFeedLimit)

	res, err := seeder.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	log.Info("seed complete",
		"fundraisers_created", res.FundraisersCreated,
		"donors_created", res.DonorsCreated,
		"donors_skipped", res.DonorsSkipped,
	)
	return res, nil
}
