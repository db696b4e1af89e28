package cache

import (
	"context"
	"fmt"
	"time"

	"Knudge/storage/redis"
)

// 消费端幂等标记
// Key: knudge:msg:processed:{message_id}
const (
	messageProcessedPrefix = "msg:processed"

	// ProcessingTTL 处理中标记的存活时间，与 broker 的消费确认超时对齐，worker 崩溃后重投能再次处理
	ProcessingTTL = 30 * time.Minute
	// ProcessedTTL 处理完成标记的存活时间
	ProcessedTTL = 24 * time.Hour
)

// TryMarkMessageProcessing 首次标记成功返回 true，已被处理或正在处理返回 false
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = ProcessingTTL
	}

	ok, err := redis.Client().SetNX(ctx, redis.Key(messageProcessedPrefix, messageID), "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return ok, nil
}

// UnmarkMessageProcessing 处理失败时撤销标记，允许重投后再次处理
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	return redis.Client().Del(ctx, redis.Key(messageProcessedPrefix, messageID)).Err()
}

func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ProcessedTTL
	}
	return redis.Client().Set(ctx, redis.Key(messageProcessedPrefix, messageID), "processed", ttl).Err()
}
