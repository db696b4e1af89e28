package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Knudge/internal/service"
	"Knudge/pkg/response"
)

// GetActivities 当前动态流，首次访问时打开视图
// GET /v1/activities
func GetActivities(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	resp, err := service.Activity().Feed(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// FetchMoreActivities 加载下一页，进行中时返回 409
// POST /v1/activities/more
func FetchMoreActivities(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	resp, err := service.Activity().FetchMore(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// CloseActivityView 离开动态页，进行中的加载结果会被丢弃
// DELETE /v1/activities/view
func CloseActivityView(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	service.Activity().CloseView(ctx, userID)
	response.NoContent(ctx, c)
}
