package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/internal/cache"
	"Knudge/pkg/logger"
	"Knudge/pkg/metrics"
	"Knudge/storage/mq"
)

// OnboardingEventHandler 处理一条已去重的引导事件
type OnboardingEventHandler interface {
	HandleOnboardingEvent(ctx context.Context, msg OnboardingEventMessage) error
}

// MessageDeduper 消息幂等标记，worker 中由 redis 实现
type MessageDeduper interface {
	TryMark(ctx context.Context, messageID string) (bool, error)
	Unmark(ctx context.Context, messageID string) error
	Done(ctx context.Context, messageID string) error
}

var (
	eventHandler OnboardingEventHandler
	deduper      MessageDeduper
)

// SetOnboardingEventHandler 设置事件处理器（在 worker 启动时调用）
func SetOnboardingEventHandler(h OnboardingEventHandler) {
	eventHandler = h
}

// SetMessageDeduper 为 nil 时不做去重
func SetMessageDeduper(d MessageDeduper) {
	deduper = d
}

// RedisDeduper 基于 cache 中的 SETNX 标记
type RedisDeduper struct{}

func (RedisDeduper) TryMark(ctx context.Context, messageID string) (bool, error) {
	return cache.TryMarkMessageProcessing(ctx, messageID, cache.ProcessingTTL)
}

func (RedisDeduper) Unmark(ctx context.Context, messageID string) error {
	return cache.UnmarkMessageProcessing(ctx, messageID)
}

func (RedisDeduper) Done(ctx context.Context, messageID string) error {
	return cache.MarkMessageProcessed(ctx, messageID, cache.ProcessedTTL)
}

// HandleOnboardingEvent 解码、去重后交给处理器；无法解码的消息直接丢弃
func HandleOnboardingEvent(ctx context.Context, body []byte) error {
	var msg OnboardingEventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal onboarding event: %v: %w", err, mq.ErrDiscard)
	}
	if eventHandler == nil {
		return fmt.Errorf("onboarding event handler not set")
	}

	if deduper != nil && msg.MessageID != "" {
		first, err := deduper.TryMark(ctx, msg.MessageID)
		if err != nil {
			// 标记失败不阻塞处理，可能重复处理
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !first {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}
	}

	if err := eventHandler.HandleOnboardingEvent(ctx, msg); err != nil {
		if deduper != nil && msg.MessageID != "" {
			_ = deduper.Unmark(ctx, msg.MessageID)
		}
		return fmt.Errorf("failed to handle onboarding event %s: %w", msg.MessageID, err)
	}

	metrics.RecordOnboardingEvent(ctx, "consumed", msg.Action)

	if deduper != nil && msg.MessageID != "" {
		if err := deduper.Done(ctx, msg.MessageID); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// StartOnboardingEventConsumer 阻塞消费直到 ctx 取消
func StartOnboardingEventConsumer(ctx context.Context) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         config.Cfg.EventsQueue,
		ConsumerTag:   "onboarding_event_consumer",
		PrefetchCount: 20,
		Handler:       HandleOnboardingEvent,
	})
}
