package dto

import "Knudge/internal/model"

// ========== Onboarding 相关 DTO ==========

type SetStepRequest struct {
	Step *int `json:"step"`
}

// SetGoalRequest goal 为 null 表示清空选择
type SetGoalRequest struct {
	Goal *string `json:"goal"`
}

type AddConnectionRequest struct {
	Platform string `json:"platform"`
}

// OnboardingResponse 会话快照
type OnboardingResponse struct {
	Session model.OnboardingSession `json:"session"`
}
