package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/replan/internal/config"
	"github.com/benvon/replan/internal/database"
	"github.com/benvon/replan/internal/handlers"
	"github.com/benvon/replan/internal/logger"
	"github.com/benvon/replan/internal/middleware"
	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/notify"
	"github.com/benvon/replan/internal/queue"
	"github.com/benvon/replan/internal/reminder"
	"github.com/benvon/replan/internal/services/oidc"
	"github.com/benvon/replan/internal/store"
	"github.com/benvon/replan/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	dlqInterval  = 1 * time.Hour
	dlqRetention = 24 * time.Hour
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		log.Fatalf("Invalid LOG_FORMAT: %v", err)
	}
	zapLogger, err := logger.New("server", format, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zapLogger, debugMode); err != nil {
		zapLogger.Fatal("server_failed", zap.Error(err))
	}
	zapLogger.Info("server_exited")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger, debugMode bool) error {
	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("auth_enabled", cfg.AuthEnabled()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	tracing := false
	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, telemetry.ServiceName, config.Version, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			tracing = true
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	// Profile and plan storage
	plans, err := store.New(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := plans.Close(); err != nil {
			zapLogger.Warn("failed_to_close_store", zap.Error(err))
		}
	}()
	zapLogger.Info("store_ready", zap.String("backend", plans.Backend()))

	// Redis backs rate limiting, notification permissions and pub/sub delivery
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedis(cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("redis_unavailable_using_memory", zap.Error(err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
				}
			}()
			zapLogger.Info("connected_to_redis")
		}
	}

	// RabbitMQ is optional; without it reminders are delivered in-process
	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		rabbit, err := queue.ConnectRabbitMQ(ctx, cfg.RabbitMQURL, 10, zapLogger)
		if err != nil {
			return err
		}
		jobQueue = rabbit
		defer func() {
			if err := rabbit.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_rabbitmq")
	}

	reminders, perms := newReminders(cfg, redisClient, jobQueue, zapLogger)
	defer reminders.Close()

	router, err := newRouter(cfg, routerDeps{
		store:     plans,
		redis:     redisClient,
		queue:     jobQueue,
		reminders: reminders,
		perms:     perms,
		tracing:   tracing,
	}, zapLogger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   middleware.DefaultRequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	// Start DLQ garbage collector if the queue implementation supports it
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, dlqInterval, dlqRetention, zapLogger)
		g.Go(func() error {
			if err := dlqGC.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", dlqInterval),
			zap.Duration("retention", dlqRetention),
		)
	}
	return g.Wait()
}

// newReminders wires the reminder chain: scheduler, permission gate, then a publisher
func newReminders(cfg *config.Config, redisClient *redis.Client, jobQueue queue.JobQueue, zapLogger *zap.Logger) (*reminder.Manager, notify.PermissionRegistry) {
	var perms notify.PermissionRegistry = notify.NewMemoryPermissions()
	if redisClient != nil {
		perms = notify.NewRedisPermissions(redisClient)
	}

	var publisher notify.Publisher
	switch {
	case jobQueue != nil:
		publisher = notify.NewQueueNotifier(jobQueue)
	case redisClient != nil:
		publisher = notify.Fanout{notify.NewPubSubNotifier(redisClient), notify.NewLogNotifier(zapLogger)}
	default:
		publisher = notify.NewLogNotifier(zapLogger)
	}

	timing, err := reminder.ParseTiming(cfg.NotifyTiming)
	if err != nil {
		timing = reminder.Timing5MinBefore
	}
	manager := reminder.NewManager(
		notify.NewGated(perms, publisher, zapLogger),
		reminder.Settings{Enabled: true, Timing: timing},
		reminder.WithActivateURL(cfg.BaseURL),
	)
	return manager, perms
}

type routerDeps struct {
	store     *store.Facade
	redis     *redis.Client
	queue     queue.JobQueue
	reminders *reminder.Manager
	perms     notify.PermissionRegistry
	tracing   bool
}

func newRouter(cfg *config.Config, deps routerDeps, zapLogger *zap.Logger) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware executes in registration order; the first registered is the outermost wrapper
	if deps.tracing {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendOrigins()))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	health := handlers.NewHealthChecker()
	health.AddCheck("store", deps.store.Ping)
	if deps.redis != nil {
		health.AddCheck("redis", func(ctx context.Context) error { return deps.redis.Ping(ctx).Err() })
	}
	if deps.queue != nil {
		health.AddCheck("queue", deps.queue.HealthCheck)
	}
	health.RegisterRoutes(r)
	r.HandleFunc("/version", handlers.VersionInfo).Methods("GET")
	openAPI, err := handlers.NewOpenAPIHandler()
	if err != nil {
		return nil, err
	}
	openAPI.RegisterRoutes(r)

	rateLimitMW, err := middleware.RateLimit(deps.redis, cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(rateLimitMW)
	api.Use(authMiddleware(cfg, zapLogger))

	handlers.NewProfileHandler(deps.store, deps.reminders, zapLogger).RegisterRoutes(api)
	handlers.NewPlanHandler(deps.store, deps.reminders, zapLogger).RegisterRoutes(api)
	handlers.NewWellnessHandler(nil).RegisterRoutes(api)
	handlers.NewNotificationHandler(deps.perms, deps.reminders, deps.store, nil, zapLogger).RegisterRoutes(api)

	// Preflight requests are answered by the CORS middleware
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r, nil
}

func authMiddleware(cfg *config.Config, zapLogger *zap.Logger) func(http.Handler) http.Handler {
	switch {
	case cfg.AuthJWKSURL != "":
		zapLogger.Info("auth_jwks_enabled", zap.String("issuer", cfg.AuthIssuer))
		return middleware.Auth(oidc.NewJWKSVerifier(oidc.NewJWKSManager(), cfg.AuthJWKSURL, cfg.AuthIssuer), zapLogger)
	case cfg.AuthHS256Secret != "":
		zapLogger.Info("auth_hs256_enabled", zap.String("issuer", cfg.AuthIssuer))
		return middleware.Auth(oidc.NewHS256Verifier(cfg.AuthHS256Secret, cfg.AuthIssuer), zapLogger)
	default:
		zapLogger.Warn("auth_disabled_single_user_mode")
		return middleware.StaticUser(&models.User{ID: "local"})
	}
}
