package model

// 筛选器中的两个固定圈子
const (
	CircleAll = "All"
	CircleVIP = "VIP"
)

// Contact 联系人，只读的静态数据
type Contact struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Avatar        string   `json:"avatar"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Platforms     []string `json:"platforms"`
	Circle        string   `json:"circle"`
	IsVIP         bool     `json:"is_vip"`
	LastContacted string   `json:"last_contacted"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
}

// MatchesFilter All 匹配全部，VIP 匹配 IsVIP，其余按圈子名精确匹配
func (c Contact) MatchesFilter(filter string) bool {
	return filter == CircleAll ||
		(filter == CircleVIP && c.IsVIP) ||
		c.Circle == filter
}

// PlatformOption 新建联系人表单中的可选平台
type PlatformOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Conversation 联系人详情中的最近对话
type Conversation struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	IsSent    bool   `json:"is_sent"`
}

// ContactFeed 联系人在各平台上的近期动态
type ContactFeed struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Platform  string `json:"platform"`
	Timestamp string `json:"timestamp"`
}
