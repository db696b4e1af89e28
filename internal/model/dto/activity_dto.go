package dto

import "Knudge/internal/model"

// ========== Activity 相关 DTO ==========

// ActivityFeedResponse 当前动态流快照
type ActivityFeedResponse struct {
	Activities []model.Activity `json:"activities"`
	Total      int              `json:"total"`
	Loading    bool             `json:"loading"`
	HasMore    bool             `json:"has_more"`
}

// FetchMoreResponse 加载下一页的结果，Appended 为本次追加的记录
type FetchMoreResponse struct {
	Appended []model.Activity     `json:"appended"`
	Feed     ActivityFeedResponse `json:"feed"`
}
