package queue

import "time"

// OnboardingEventMessage 引导会话变更事件，routing key 为 onboarding.{action}
type OnboardingEventMessage struct {
	OccurredAt  time.Time `json:"occurred_at"`
	MessageID   string    `json:"message_id"`
	UserID      string    `json:"user_id"`
	StorageKey  string    `json:"storage_key"`
	Action      string    `json:"action"`
	Goal        string    `json:"goal,omitempty"`
	Connections []string  `json:"connections"`
	CurrentStep int       `json:"current_step"`
	Completed   bool      `json:"completed"`
}

// RoutingKey 事件的 routing key
func (m OnboardingEventMessage) RoutingKey() string {
	return "onboarding." + m.Action
}
