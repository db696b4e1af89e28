package model

// ActivityType 动态类型
type ActivityType string

const (
	ActivitySent      ActivityType = "sent"
	ActivityReceived  ActivityType = "received"
	ActivityReminder  ActivityType = "reminder"
	ActivityConnected ActivityType = "connected"
)

// Activity 动态流中的一条记录，Timestamp 是展示用的相对时间文本
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Contact   string       `json:"contact"`
	Platform  string       `json:"platform"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"`
}
