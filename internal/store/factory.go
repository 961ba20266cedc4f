package store

import (
	"context"
	"fmt"
	"io"

	"github.com/benvon/replan/internal/config"
	"github.com/benvon/replan/internal/database"
	"go.uber.org/zap"
)

// New builds the store selected by configuration. Remote backends are wrapped
// with the local file store when fallback is enabled; a remote backend that is
// unreachable at startup degrades to the local store alone.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Facade, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		return NewFacade(config.StoreBackendMemory, NewMemoryStore()), nil
	case config.StoreBackendFile:
		fs, err := NewFileStore(cfg.LocalStorePath, logger)
		if err != nil {
			return nil, err
		}
		return NewFacade(config.StoreBackendFile, fs), nil
	}

	primary, closer, err := openRemote(ctx, cfg, logger)
	if err != nil {
		if !cfg.StoreFallbackEnabled {
			return nil, err
		}
		logger.Warn("store_remote_unavailable_using_local",
			zap.String("backend", cfg.StoreBackend),
			zap.Error(err),
		)
		fs, ferr := NewFileStore(cfg.LocalStorePath, logger)
		if ferr != nil {
			return nil, ferr
		}
		return NewFacade(config.StoreBackendFile, fs), nil
	}

	if !cfg.StoreFallbackEnabled {
		return NewFacade(cfg.StoreBackend, primary, closer), nil
	}

	fs, err := NewFileStore(cfg.LocalStorePath, logger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	logger.Info("store_initialized",
		zap.String("backend", cfg.StoreBackend),
		zap.String("fallback_path", cfg.LocalStorePath),
	)
	return NewFacade(cfg.StoreBackend, NewFallback(primary, fs, logger), closer), nil
}

func openRemote(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		applied, err := db.Migrate(ctx)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("database_migrated", zap.Strings("versions", applied))
		}
		return NewPostgresStore(db), db, nil
	case config.StoreBackendRedis:
		client, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
