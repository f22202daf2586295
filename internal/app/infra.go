package app

import (
	"database/sql"
	"errors"

	"github.com/Funnel-Builder/people-pulse/internal/config"
	"github.com/Funnel-Builder/people-pulse/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections every binary starts from.
type Infra struct {
	Config config.Config
	GormDB *gorm.DB
	SQL    *sql.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

// Connect opens Postgres and, when withRedis is set, Redis.
func Connect(cfg config.Config, withRedis bool, logger *zap.Logger) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	in := &Infra{Config: cfg, GormDB: gormDB, SQL: sqlDB, Logger: logger}
	if withRedis {
		if cfg.RedisAddr == "" {
			_ = sqlDB.Close()
			return nil, errors.New("REDIS_ADDR is required")
		}
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		in.Redis = rdb
		logger.Info("redis connection established")
	}
	return in, nil
}

func (in *Infra) Close() {
	if in.Redis != nil {
		_ = in.Redis.Close()
	}
	_ = in.SQL.Close()
}
