package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/internal/queue"
	"Knudge/internal/service"
	"Knudge/pkg/logger"
	"Knudge/pkg/metrics"
	"Knudge/pkg/otel"
	"Knudge/storage/mq"
	"Knudge/storage/redis"
)

func main() {
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if config.Cfg.TracingEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.FromConfig(&config.Cfg))
		if err != nil {
			logger.Logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
			}
		}()
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// worker 只依赖 redis（去重）和 rabbitmq，不连数据库
	if err := redis.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer func() {
		if err := redis.Close(context.Background()); err != nil {
			logger.Logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	if err := mq.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize message queue", zap.Error(err))
	}
	defer func() {
		if err := mq.Close(); err != nil {
			logger.Logger.Error("Failed to close message queue", zap.Error(err))
		}
	}()

	queue.SetMessageDeduper(queue.RedisDeduper{})
	queue.SetOnboardingEventHandler(service.OnboardingFunnel{})

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
		zap.String("queue", config.Cfg.EventsQueue),
	)

	if err := queue.StartOnboardingEventConsumer(ctx); err != nil && ctx.Err() == nil {
		logger.Logger.Error("Onboarding event consumer stopped", zap.Error(err))
	}

	logger.Logger.Info("Worker service shutting down gracefully")
}
