// Package main is the entrypoint for the AutoTrack API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/autotrack/autotrack/internal/assistant"
	"github.com/autotrack/autotrack/internal/cache"
	"github.com/autotrack/autotrack/internal/config"
	"github.com/autotrack/autotrack/internal/handler"
	"github.com/autotrack/autotrack/internal/metrics"
	"github.com/autotrack/autotrack/internal/middleware"
	"github.com/autotrack/autotrack/internal/notify"
	"github.com/autotrack/autotrack/internal/repository"
	"github.com/autotrack/autotrack/internal/server"
	"github.com/autotrack/autotrack/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	recorder := metrics.NewInMemory()

	// Services
	carService := service.NewCarService(repo, repo, cacheClient, logger, recorder)
	taskService := service.NewTaskService(repo, repo, cacheClient, logger, recorder)
	dashboardService := service.NewDashboardService(repo, repo, cacheClient, logger, recorder)
	userService := service.NewUserService(repo, cacheClient, cfg.SessionTTL)
	notificationService := service.NewNotificationService(repo, recorder)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(userService, logger)
	carHandler := handler.NewCarHandler(carService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	chatHandler := handler.NewChatHandler(
		assistant.New(cfg.AssistantEndpoint, cfg.AssistantAPIKey),
		carService,
		logger,
	)

	r := setupRouter(routerDeps{
		root:          h,
		health:        healthHandler,
		metrics:       metricsHandler,
		auth:          authHandler,
		cars:          carHandler,
		tasks:         taskHandler,
		dashboard:     dashboardHandler,
		notifications: notificationHandler,
		chat:          chatHandler,
		cache:         cacheClient,
		cfg:           cfg,
		logger:        logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Reminder worker
	if cfg.ReminderWorkerEnabled {
		var mailer notify.Mailer = notify.NoopMailer{}
		if cfg.MailEndpoint != "" {
			mailer = notify.NewHTTPMailer(cfg.MailEndpoint, cfg.MailAPIKey, cfg.MailFrom)
		}
		worker := notify.NewWorker(repo, mailer, logger, recorder)
		worker.SetPollInterval(cfg.ReminderPollInterval)

		workerCtx, stopWorker := context.WithCancel(ctx)
		workerDone := make(chan struct{})
		go func() {
			defer close(workerDone)
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reminder worker exited", "error", err)
			}
		}()

		srv.OnShutdown("reminder-worker", func(ctx context.Context) error {
			stopWorker()
			select {
			case <-workerDone:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	root          *handler.Handler
	health        *handler.HealthHandler
	metrics       *handler.MetricsHandler
	auth          *handler.AuthHandler
	cars          *handler.CarHandler
	tasks         *handler.TaskHandler
	dashboard     *handler.DashboardHandler
	notifications *handler.NotificationHandler
	chat          *handler.ChatHandler
	cache         *cache.Cache
	cfg           *config.Config
	logger        *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: deps.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.root.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   deps.logger,
		Sessions: deps.cache,
	}
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        deps.logger,
		Limiter:       deps.cache,
		Enabled:       deps.cfg.RateLimitAuthEnabled,
		RatePerMinute: deps.cfg.RateLimitAuthPerMin,
		Burst:         deps.cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints: no session, but IP rate limited.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Post("/auth/register", deps.auth.Register)
			r.Post("/auth/login", deps.auth.Login)
		})

		// Everything else requires a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/auth/logout", deps.auth.Logout)
			r.Get("/auth/me", deps.auth.Me)

			r.Route("/cars", func(r chi.Router) {
				r.Get("/", deps.cars.List)
				r.Post("/", deps.cars.Create)
				r.Get("/{id}", deps.cars.Get)
				r.Patch("/{id}", deps.cars.Update)
				r.Delete("/{id}", deps.cars.Delete)
				r.Get("/{id}/mileage", deps.cars.ListMileage)
				r.Post("/{id}/mileage", deps.cars.LogMileage)
			})

			r.Route("/maintenance", func(r chi.Router) {
				r.Get("/", deps.tasks.List)
				r.Post("/", deps.tasks.Create)
				r.Get("/{id}", deps.tasks.Get)
				r.Patch("/{id}", deps.tasks.Update)
				r.Delete("/{id}", deps.tasks.Delete)
				r.Post("/{id}/complete", deps.tasks.Complete)
			})

			r.Get("/dashboard/stats", deps.dashboard.Stats)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", deps.notifications.List)
				r.Post("/{id}/read", deps.notifications.MarkRead)
				r.Delete("/{id}", deps.notifications.Delete)
			})

			r.Get("/settings", deps.auth.GetSettings)
			r.Patch("/settings", deps.auth.UpdateSettings)

			r.Post("/chat", deps.chat.Chat)
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.root.NotFound)
	r.MethodNotAllowed(deps.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
