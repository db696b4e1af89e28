package mockdata

import "Knudge/internal/model"

var contacts = []model.Contact{
	{
		ID: "1", Name: "Sarah Chen", Avatar: "SC", Title: "Product Lead", Company: "Stripe",
		Platforms: []string{"linkedin", "whatsapp"}, Circle: "Work", IsVIP: true, LastContacted: "2 days ago",
		Email: "sarah.chen@example.com",
	},
	{
		ID: "2", Name: "John Investor", Avatar: "JI", Title: "Partner", Company: "Sequoia",
		Platforms: []string{"linkedin", "email"}, Circle: "Investors", IsVIP: true, LastContacted: "1 week ago",
		Email: "john@example.com",
	},
	{
		ID: "3", Name: "Emily Rodriguez", Avatar: "ER", Title: "Designer", Company: "Figma",
		Platforms: []string{"whatsapp", "signal"}, Circle: "Friends", IsVIP: false, LastContacted: "3 days ago",
		Phone: "+1 555 0103",
	},
	{
		ID: "4", Name: "Michael Chang", Avatar: "MC", Title: "CTO", Company: "Linear",
		Platforms: []string{"linkedin", "email"}, Circle: "Work", IsVIP: false, LastContacted: "5 days ago",
		Email: "michael@example.com",
	},
	{
		ID: "5", Name: "Lisa Park", Avatar: "LP", Title: "Founder", Company: "Bloom",
		Platforms: []string{"signal", "telegram"}, Circle: "Investors", IsVIP: false, LastContacted: "2 weeks ago",
	},
	{
		ID: "6", Name: "David Kim", Avatar: "DK", Title: "Engineer", Company: "Vercel",
		Platforms: []string{"whatsapp"}, Circle: "Friends", IsVIP: true, LastContacted: "Yesterday",
		Phone: "+1 555 0106",
	},
}

var circles = []string{model.CircleAll, model.CircleVIP, "Work", "Investors", "Friends"}

var platformOptions = []model.PlatformOption{
	{ID: "whatsapp", Label: "WhatsApp"},
	{ID: "linkedin", Label: "LinkedIn"},
	{ID: "email", Label: "Email"},
	{ID: "signal", Label: "Signal"},
	{ID: "telegram", Label: "Telegram"},
}

var conversations = []model.Conversation{
	{ID: "conv1", Message: "Hey, great meeting you at the conference!", Timestamp: "2 days ago", IsSent: true},
	{ID: "conv2", Message: "Thanks! Would love to discuss the partnership further.", Timestamp: "2 days ago", IsSent: false},
	{ID: "conv3", Message: "Absolutely, let me send over some details.", Timestamp: "1 day ago", IsSent: true},
}

var contactFeeds = []model.ContactFeed{
	{ID: "feed1", Title: "Shared an article about AI trends", Platform: "linkedin", Timestamp: "5 hours ago"},
	{ID: "feed2", Title: `Posted a video: "Future of Tech"`, Platform: "youtube", Timestamp: "1 day ago"},
	{ID: "feed3", Title: "Commented on your post", Platform: "linkedin", Timestamp: "2 days ago"},
}

// Contacts 全部联系人
func Contacts() []model.Contact {
	out := make([]model.Contact, len(contacts))
	for i, c := range contacts {
		c.Platforms = append([]string(nil), c.Platforms...)
		out[i] = c
	}
	return out
}

// Circles 筛选器顺序：All、VIP、其余圈子
func Circles() []string {
	return append([]string(nil), circles...)
}

func PlatformOptions() []model.PlatformOption {
	return append([]model.PlatformOption(nil), platformOptions...)
}

// Conversations 每个联系人详情都展示同一组对话
func Conversations() []model.Conversation {
	return append([]model.Conversation(nil), conversations...)
}

func ContactFeeds() []model.ContactFeed {
	return append([]model.ContactFeed(nil), contactFeeds...)
}
