package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/pkg/logger"
	"Knudge/pkg/metrics"
	"Knudge/pkg/snowflake"
	"Knudge/storage/mq"
)

// publishFunc 测试中替换，避免依赖 RabbitMQ
var publishFunc = mq.PublishMessage

// PublishOnboardingEvent 发布引导会话变更事件，MessageID 为空时生成
func PublishOnboardingEvent(ctx context.Context, msg OnboardingEventMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("onb_%d", id)
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now()
	}

	if err := publishFunc(ctx, config.Cfg.EventsExchange, msg.RoutingKey(), msg); err != nil {
		logger.Logger.Error("Failed to publish onboarding event",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.String("action", msg.Action),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordOnboardingEvent(ctx, "published", msg.Action)
	logger.Logger.Debug("Published onboarding event",
		zap.String("message_id", msg.MessageID),
		zap.String("routing_key", msg.RoutingKey()),
	)
	return nil
}
