package storage

import (
	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/pkg/logger"
	"Knudge/storage/database"
	"Knudge/storage/mq"
	"Knudge/storage/redis"
)

// Init 按配置初始化需要的存储：
// postgres 仅在 ONBOARDING_BACKEND=postgres 时连接，rabbitmq 仅在 EVENTS_ENABLED 时连接
func Init() error {
	cfg := config.Cfg

	if cfg.OnboardingBackend == "postgres" {
		if err := database.Init(); err != nil {
			return err
		}
	}

	if cfg.RedisRequired() {
		if err := redis.Init(); err != nil {
			return err
		}
	}

	if cfg.EventsEnabled {
		if err := mq.Init(); err != nil {
			return err
		}
	}

	logger.Logger.Info("Storage initialized",
		zap.String("onboarding_backend", cfg.OnboardingBackend),
		zap.Bool("redis", cfg.RedisRequired()),
		zap.Bool("events", cfg.EventsEnabled),
	)
	return nil
}
