package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Knudge/internal/middleware"
	"Knudge/pkg/errors"
	"Knudge/pkg/response"
)

// currentUser 鉴权中间件之后调用；取不到用户时已经写好 401 响应
func currentUser(ctx context.Context, c *app.RequestContext) (string, bool) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.Unauthorized)
		return "", false
	}
	return userID, true
}
