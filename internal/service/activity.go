package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/internal/feed"
	"Knudge/internal/model"
	"Knudge/internal/model/dto"
	pkgerrors "Knudge/pkg/errors"
	"Knudge/pkg/logger"
)

var (
	activityService *ActivityService
	activityOnce    sync.Once
)

// Activity 默认使用 mock provider，页大小与上限来自配置
func Activity() *ActivityService {
	activityOnce.Do(func() {
		cfg := config.Cfg
		provider := feed.NewMockProvider(cfg.FeedFetchDelay(), time.Now().UnixNano())
		activityService = NewActivityService(provider,
			feed.WithPageSize(cfg.FeedPageSize),
			feed.WithMaxTotal(cfg.FeedMaxTotal),
		)
	})
	return activityService
}

// UseActivity 替换全局实例
func UseActivity(s *ActivityService) {
	activityOnce.Do(func() {})
	activityService = s
}

// ActivityService 每个用户一个动态视图
type ActivityService struct {
	registry *feed.Registry
}

func NewActivityService(provider feed.ActivityProvider, opts ...feed.Option) *ActivityService {
	return &ActivityService{
		registry: feed.NewRegistry(func() *feed.Pager {
			return feed.NewPager(provider, opts...)
		}),
	}
}

func (s *ActivityService) Feed(ctx context.Context, userID string) (dto.ActivityFeedResponse, error) {
	if userID == "" {
		return dto.ActivityFeedResponse{}, pkgerrors.Unauthorized
	}
	return toFeedResponse(s.registry.Open(ctx, userID).Snapshot()), nil
}

// FetchMore 拉取下一页；已有拉取进行中时返回 FeedFetchInFlight
func (s *ActivityService) FetchMore(ctx context.Context, userID string) (*dto.FetchMoreResponse, error) {
	if userID == "" {
		return nil, pkgerrors.Unauthorized
	}

	pager := s.registry.Open(ctx, userID)
	appended, err := pager.FetchMore(ctx)
	if err != nil {
		logger.Logger.Debug("Activity fetch did not append",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.FetchMoreResponse{
		Appended: appended,
		Feed:     toFeedResponse(pager.Snapshot()),
	}, nil
}

// CloseView 关闭视图，进行中的拉取结果会被丢弃；下次访问重新从初始记录开始
func (s *ActivityService) CloseView(ctx context.Context, userID string) bool {
	return s.registry.Close(ctx, userID)
}

func (s *ActivityService) Shutdown() {
	s.registry.CloseAll()
}

func toFeedResponse(snap feed.Snapshot) dto.ActivityFeedResponse {
	activities := snap.Activities
	if activities == nil {
		activities = []model.Activity{}
	}
	return dto.ActivityFeedResponse{
		Activities: activities,
		Total:      len(activities),
		Loading:    snap.Loading,
		HasMore:    snap.HasMore,
	}
}
