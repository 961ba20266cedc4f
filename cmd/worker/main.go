package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/replan/internal/config"
	"github.com/benvon/replan/internal/database"
	"github.com/benvon/replan/internal/logger"
	"github.com/benvon/replan/internal/notify"
	"github.com/benvon/replan/internal/queue"
	"github.com/benvon/replan/internal/telemetry"
	"github.com/benvon/replan/internal/workers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
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
	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required for the reminder worker")
	}

	debugMode := cfg.WorkerDebugMode || *debugFlag

	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		log.Fatalf("Invalid LOG_FORMAT: %v", err)
	}
	zapLogger, err := logger.New("worker", format, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zapLogger); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Fatal("worker_failed", zap.Error(err))
	}
	zapLogger.Info("worker_stopped")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	zapLogger.Info("starting_worker",
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
		zap.Bool("redis_enabled", cfg.RedisURL != ""),
	)

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, telemetry.WorkerServiceName, config.Version, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	jobQueue, err := queue.ConnectRabbitMQ(ctx, cfg.RabbitMQURL, 10, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	publishers := notify.Fanout{notify.NewLogNotifier(zapLogger)}
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		publishers = append(notify.Fanout{notify.NewPubSubNotifier(redisClient)}, publishers...)
		zapLogger.Info("connected_to_redis")
	}

	dispatcher := workers.NewReminderDispatcher(publishers, jobQueue, zapLogger)

	msgs, errs, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		return err
	}
	zapLogger.Info("worker_started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx, msgs, errs)
	})
	gc := queue.NewGarbageCollector(jobQueue, time.Hour, 24*time.Hour, zapLogger)
	g.Go(func() error {
		return gc.Start(gctx)
	})
	return g.Wait()
}
