package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"Knudge/internal/mockdata"
	"Knudge/internal/model"
	"Knudge/internal/model/dto"
	pkgerrors "Knudge/pkg/errors"
	"Knudge/pkg/logger"
	"Knudge/pkg/snowflake"
)

var (
	contactService *ContactService
	contactOnce    sync.Once
)

func Contact() *ContactService {
	contactOnce.Do(func() {
		contactService = &ContactService{}
	})

	return contactService
}

// ContactService 联系人目前是只读的静态数据，新建只返回确认
type ContactService struct{}

// List 姓名模糊搜索（不区分大小写）与圈子筛选同时生效
func (s *ContactService) List(ctx context.Context, query dto.ContactListQuery) dto.ContactListResponse {
	circle := query.Circle
	if circle == "" {
		circle = model.CircleAll
	}
	needle := strings.ToLower(query.Q)

	contacts := make([]model.Contact, 0)
	for _, c := range mockdata.Contacts() {
		if !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		if !c.MatchesFilter(circle) {
			continue
		}
		contacts = append(contacts, c)
	}

	return dto.ContactListResponse{
		Contacts: contacts,
		Total:    len(contacts),
	}
}

// Get 联系人详情，对话与动态对所有联系人相同
func (s *ContactService) Get(ctx context.Context, contactID string) (*dto.ContactDetailResponse, error) {
	for _, c := range mockdata.Contacts() {
		if c.ID != contactID {
			continue
		}
		return &dto.ContactDetailResponse{
			Contact:       c,
			Conversations: mockdata.Conversations(),
			Feeds:         mockdata.ContactFeeds(),
		}, nil
	}

	return nil, pkgerrors.ContactNotFound
}

// Create 只校验姓名，不会写入联系人列表
func (s *ContactService) Create(ctx context.Context, userID string, req dto.CreateContactRequest) (*dto.CreateContactResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.ContactNameRequired
	}

	id, err := snowflake.NextString()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contact id: %w", err)
	}

	logger.Logger.Info("Contact form accepted",
		zap.String("user_id", userID),
		zap.String("contact_id", id),
		zap.Int("platforms", len(req.Platforms)),
	)

	return &dto.CreateContactResponse{
		ID:      id,
		Name:    req.Name,
		Message: req.Name + " added to contacts!",
	}, nil
}

func (s *ContactService) Circles(ctx context.Context) []string {
	return mockdata.Circles()
}

func (s *ContactService) Platforms(ctx context.Context) []model.PlatformOption {
	return mockdata.PlatformOptions()
}
