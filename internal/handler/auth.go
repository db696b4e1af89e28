package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Knudge/internal/model/dto"
	"Knudge/internal/service"
	"Knudge/pkg/response"
)

// Login 模拟第三方登录，成功后签发 access token
// POST /v1/auth/login/:provider
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginRequest
	if len(c.Request.Body()) > 0 {
		if err := c.BindJSON(&req); err != nil {
			response.BindError(ctx, c, err)
			return
		}
	}
	req.Provider = c.Param("provider")
	if req.DeviceID == "" {
		req.DeviceID = c.ClientIP()
	}

	resp, err := service.Auth().Login(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}
