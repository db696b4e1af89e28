package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Knudge/internal/model"
	"Knudge/internal/model/dto"
	"Knudge/internal/service"
	"Knudge/pkg/errors"
	"Knudge/pkg/response"
)

func writeSession(ctx context.Context, c *app.RequestContext, session model.OnboardingSession, err error) {
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, dto.OnboardingResponse{Session: session})
}

// GetOnboarding 获取当前用户的引导会话
// GET /v1/onboarding
func GetOnboarding(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	session, err := service.Onboarding().Get(ctx, userID)
	writeSession(ctx, c, session, err)
}

// SetOnboardingStep 跳转到指定步骤，不校验范围
// PUT /v1/onboarding/step
func SetOnboardingStep(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req dto.SetStepRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}
	if req.Step == nil {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	session, err := service.Onboarding().SetStep(ctx, userID, *req.Step)
	writeSession(ctx, c, session, err)
}

// SetOnboardingGoal 选择或清空目标
// PUT /v1/onboarding/goal
func SetOnboardingGoal(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req dto.SetGoalRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Onboarding().SetGoal(ctx, userID, req.Goal)
	writeSession(ctx, c, session, err)
}

// PatchOnboardingProfile PATCH /v1/onboarding/profile
func PatchOnboardingProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var patch model.ProfilePatch
	if err := c.BindJSON(&patch); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Onboarding().SetProfile(ctx, userID, patch)
	writeSession(ctx, c, session, err)
}

// PatchOnboardingVoice PATCH /v1/onboarding/voice
func PatchOnboardingVoice(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var patch model.VoicePatch
	if err := c.BindJSON(&patch); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Onboarding().SetVoice(ctx, userID, patch)
	writeSession(ctx, c, session, err)
}

// PatchOnboardingKnowledge PATCH /v1/onboarding/knowledge
func PatchOnboardingKnowledge(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var patch model.KnowledgePatch
	if err := c.BindJSON(&patch); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Onboarding().SetKnowledge(ctx, userID, patch)
	writeSession(ctx, c, session, err)
}

// PatchOnboardingTrial PATCH /v1/onboarding/trial
func PatchOnboardingTrial(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var patch model.TrialPatch
	if err := c.BindJSON(&patch); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	session, err := service.Onboarding().SetTrial(ctx, userID, patch)
	writeSession(ctx, c, session, err)
}

// AddOnboardingConnection 连接一个平台，重复连接不报错
// POST /v1/onboarding/connections
func AddOnboardingConnection(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req dto.AddConnectionRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}
	if req.Platform == "" {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	session, err := service.Onboarding().AddConnection(ctx, userID, req.Platform)
	writeSession(ctx, c, session, err)
}

// CompleteOnboarding POST /v1/onboarding/complete
func CompleteOnboarding(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	session, err := service.Onboarding().Complete(ctx, userID)
	writeSession(ctx, c, session, err)
}

// ResetOnboarding 恢复默认会话
// POST /v1/onboarding/reset
func ResetOnboarding(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	session, err := service.Onboarding().Reset(ctx, userID)
	writeSession(ctx, c, session, err)
}
