package router

import (
	"github.com/cloudwego/hertz/pkg/route"

	"Knudge/config"
	"Knudge/internal/handler"
	"Knudge/internal/middleware"
)

// Register 注册全部路由，middleware.Init 需要先完成
func Register(h *route.Engine) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware(config.Cfg.CORSAllowOrigins))
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")

	// 认证相关路由
	auth := v1.Group("/auth")
	if config.Cfg.RateLimitEnabled {
		auth.Use(middleware.AuthRateLimitMiddleware())
	}
	{
		auth.POST("/login/:provider", handler.Login)
	}

	// 以下路由都需要鉴权
	authed := v1.Group("", middleware.AuthMiddleware())

	onboarding := authed.Group("/onboarding")
	{
		onboarding.GET("", handler.GetOnboarding)
		onboarding.PUT("/step", handler.SetOnboardingStep)
		onboarding.PUT("/goal", handler.SetOnboardingGoal)
		onboarding.PATCH("/profile", handler.PatchOnboardingProfile)
		onboarding.PATCH("/voice", handler.PatchOnboardingVoice)
		onboarding.PATCH("/knowledge", handler.PatchOnboardingKnowledge)
		onboarding.PATCH("/trial", handler.PatchOnboardingTrial)
		onboarding.POST("/connections", handler.AddOnboardingConnection)
		onboarding.POST("/complete", handler.CompleteOnboarding)
		onboarding.POST("/reset", handler.ResetOnboarding)
	}

	activities := authed.Group("/activities")
	{
		activities.GET("", handler.GetActivities)
		activities.POST("/more", handler.FetchMoreActivities)
		activities.DELETE("/view", handler.CloseActivityView)
	}

	contacts := authed.Group("/contacts")
	{
		contacts.GET("", handler.ListContacts)
		contacts.POST("", handler.CreateContact)
		contacts.GET("/:contact_id", handler.GetContactDetail)
	}

	authed.GET("/circles", handler.ListCircles)
	authed.GET("/platforms", handler.ListPlatforms)
}
