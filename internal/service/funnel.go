package service

import (
	"context"

	"go.uber.org/zap"

	"Knudge/internal/queue"
	"Knudge/pkg/logger"
)

// OnboardingFunnel worker 侧的引导事件处理器，目前只记录漏斗日志
type OnboardingFunnel struct{}

func (OnboardingFunnel) HandleOnboardingEvent(ctx context.Context, msg queue.OnboardingEventMessage) error {
	fields := []zap.Field{
		zap.String("message_id", msg.MessageID),
		zap.String("user_id", msg.UserID),
		zap.String("action", msg.Action),
		zap.Int("current_step", msg.CurrentStep),
		zap.Int("connections", len(msg.Connections)),
	}
	if msg.Goal != "" {
		fields = append(fields, zap.String("goal", msg.Goal))
	}

	if msg.Action == "complete" {
		logger.Logger.Info("Onboarding completed", fields...)
		return nil
	}
	logger.Logger.Info("Onboarding progressed", fields...)
	return nil
}
