package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"Knudge/internal/model/dto"
	"Knudge/internal/service"
	"Knudge/pkg/errors"
	"Knudge/pkg/response"
)

// ListContacts 联系人列表，支持姓名搜索与圈子筛选
// GET /v1/contacts?q=&circle=
func ListContacts(ctx context.Context, c *app.RequestContext) {
	var query dto.ContactListQuery
	if err := c.BindQuery(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	response.Success(ctx, c, service.Contact().List(ctx, query))
}

// GetContactDetail GET /v1/contacts/:contact_id
func GetContactDetail(ctx context.Context, c *app.RequestContext) {
	contactID := c.Param("contact_id")
	if contactID == "" {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	detail, err := service.Contact().Get(ctx, contactID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// CreateContact 新建联系人表单，只返回确认
// POST /v1/contacts
func CreateContact(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Contact().Create(ctx, userID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, resp)
}

// ListCircles GET /v1/circles
func ListCircles(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, service.Contact().Circles(ctx))
}

// ListPlatforms 新建联系人时可选的平台
// GET /v1/platforms
func ListPlatforms(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, service.Contact().Platforms(ctx))
}
