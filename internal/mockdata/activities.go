// Package mockdata 原型阶段使用的静态数据：联系人、圈子、初始动态、对话与联系人动态。
// 返回值都是副本，调用方可以随意修改。
package mockdata

import "Knudge/internal/model"

var seedActivities = []model.Activity{
	{ID: "1", Type: model.ActivitySent, Contact: "Sarah Chen", Platform: "LinkedIn", Message: "Sent follow-up message", Timestamp: "2 hours ago"},
	{ID: "2", Type: model.ActivityReceived, Contact: "John Investor", Platform: "Email", Message: "Replied to your message", Timestamp: "3 hours ago"},
	{ID: "3", Type: model.ActivityReminder, Contact: "Emily Rodriguez", Platform: "WhatsApp", Message: "Reminder for quarterly update", Timestamp: "5 hours ago"},
	{ID: "4", Type: model.ActivityConnected, Contact: "Michael Chang", Platform: "LinkedIn", Message: "Successfully synced contacts", Timestamp: "6 hours ago"},
	{ID: "5", Type: model.ActivitySent, Contact: "Lisa Park", Platform: "Signal", Message: "Congratulated on achievement", Timestamp: "8 hours ago"},
	{ID: "6", Type: model.ActivityReceived, Contact: "David Kim", Platform: "WhatsApp", Message: "Discussed new opportunity", Timestamp: "10 hours ago"},
	{ID: "7", Type: model.ActivitySent, Contact: "Emily Rodriguez", Platform: "Email", Message: "Sent follow-up message", Timestamp: "12 hours ago"},
	{ID: "8", Type: model.ActivityReminder, Contact: "Sarah Chen", Platform: "LinkedIn", Message: "Reminder for quarterly update", Timestamp: "1 day ago"},
	{ID: "9", Type: model.ActivityReceived, Contact: "Michael Chang", Platform: "Signal", Message: "Replied to your message", Timestamp: "1 day ago"},
	{ID: "10", Type: model.ActivityConnected, Contact: "John Investor", Platform: "Email", Message: "Successfully synced contacts", Timestamp: "2 days ago"},
}

// SeedActivities 动态流的初始 10 条记录
func SeedActivities() []model.Activity {
	return append([]model.Activity(nil), seedActivities...)
}

// 生成动态时使用的取值范围
var (
	ActivityTypes = []model.ActivityType{
		model.ActivitySent,
		model.ActivityReceived,
		model.ActivityReminder,
		model.ActivityConnected,
	}
	ActivityContacts  = []string{"Sarah Chen", "John Investor", "Emily Rodriguez", "Michael Chang", "Lisa Park", "David Kim"}
	ActivityPlatforms = []string{"WhatsApp", "LinkedIn", "Signal", "Email"}
	ActivityMessages  = []string{
		"Sent follow-up message",
		"Replied to your message",
		"Reminder for quarterly update",
		"Successfully synced contacts",
		"Congratulated on achievement",
		"Discussed new opportunity",
	}
)
