package dto

import "Knudge/internal/model"

// ========== Contact 相关 DTO ==========

// ContactListQuery 搜索与圈子筛选，Circle 为空时视为 All
type ContactListQuery struct {
	Q      string `query:"q"`
	Circle string `query:"circle"`
}

type ContactListResponse struct {
	Contacts []model.Contact `json:"contacts"`
	Total    int             `json:"total"`
}

// ContactDetailResponse 联系人详情，附带最近对话与近期动态
type ContactDetailResponse struct {
	Contact       model.Contact        `json:"contact"`
	Conversations []model.Conversation `json:"conversations"`
	Feeds         []model.ContactFeed  `json:"feeds"`
}

// CreateContactRequest 新建联系人表单，只校验姓名非空
type CreateContactRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Platforms []string `json:"platforms"`
}

// CreateContactResponse 新建联系人的确认，不会写入联系人列表
type CreateContactResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
