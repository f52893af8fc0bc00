package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"turno/internal/domain/analytics"
	"turno/internal/domain/auth"
	"turno/internal/domain/directory"
	"turno/internal/domain/leave"
	"turno/internal/domain/messaging"
	"turno/internal/domain/notifications"
	"turno/internal/domain/schedule"
	"turno/internal/domain/timeclock"
	"turno/internal/platform/config"
	"turno/internal/platform/crypto"
	"turno/internal/platform/db"
	"turno/internal/platform/email"
	"turno/internal/platform/jobs"
	"turno/internal/platform/metrics"
	"turno/internal/transport/http/api"
	analyticshandler "turno/internal/transport/http/handlers/analytics"
	authhandler "turno/internal/transport/http/handlers/auth"
	directoryhandler "turno/internal/transport/http/handlers/directory"
	leavehandler "turno/internal/transport/http/handlers/leave"
	messaginghandler "turno/internal/transport/http/handlers/messaging"
	notificationshandler "turno/internal/transport/http/handlers/notifications"
	schedulehandler "turno/internal/transport/http/handlers/schedule"
	timeclockhandler "turno/internal/transport/http/handlers/timeclock"
	"turno/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service

	cancel context.CancelFunc
}

// New connects, migrates, seeds and wires the router. The caller owns
// the returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed failed: %w", err)
		}
	}

	encryptor, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("invalid DATA_ENCRYPTION_KEY: %w", err)
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	jobService := jobs.New(pool, cfg)
	jobService.Start(jobCtx)

	collector := metrics.New()

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, encryptor)
	scheduleService := schedule.NewService(schedule.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool))
	timeclockService := timeclock.NewService(timeclock.NewStore(pool))
	analyticsService := analytics.NewService(pool, schedule.NewStore(pool), timeclock.NewStore(pool), leave.NewStore(pool))
	notificationsService := notifications.NewService(notifications.NewStore(pool), email.New(cfg), cfg)
	messagingService := messaging.NewService(messaging.NewStore(pool))
	directoryService := directory.NewService(directory.NewStore(pool), cfg.AvatarDir)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleService, notificationsService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService).RegisterRoutes(r)
		timeclockhandler.NewHandler(timeclockService).RegisterRoutes(r)
		analyticshandler.NewHandler(analyticsService).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationsService).RegisterRoutes(r)
		messaginghandler.NewHandler(messagingService).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.With(middleware.RequireAdmin).Get("/admin/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})
		}
	})

	avatarServer := http.StripPrefix("/avatars/", http.FileServer(http.Dir(cfg.AvatarDir)))
	router.Get("/avatars/*", avatarServer.ServeHTTP)

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{
		Config: cfg,
		DB:     pool,
		Router: router,
		Jobs:   jobService,
		cancel: cancel,
	}, nil
}

func (a *App) Close() {
	a.cancel()
	a.DB.Close()
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	slog.Info("turno server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
