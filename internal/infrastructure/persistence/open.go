package persistence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/waste3d/course-marketplace/config"
	"github.com/waste3d/course-marketplace/internal/infrastructure/logger"
)

// Open builds the backend selected by cfg.StorageDriver. The returned closer
// releases its connections.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (Backend, func() error, error) {
	log = logger.OrNop(log)
	noop := func() error { return nil }

	switch cfg.StorageDriver {
	case "", "file":
		b, err := NewFileBackend(afero.NewOsFs(), cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using file storage", zap.String("dir", cfg.DataDir))
		return b, noop, nil

	case "memory":
		log.Info("using in-memory storage")
		return NewMemoryBackend(), noop, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
		}
		log.Info("using redis storage", zap.String("addr", cfg.RedisAddr))
		return NewRedisBackend(rdb, cfg.RedisPrefix), rdb.Close, nil

	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{SkipDefaultTransaction: true})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		b := NewPostgresBackend(db)
		if err := b.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("migrate ledger_blobs: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres storage", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		return b, sqlDB.Close, nil

	case "sqlite":
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		b, err := NewSQLiteBackend(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using sqlite storage", zap.String("path", cfg.SQLitePath))
		return b, db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
