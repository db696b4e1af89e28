package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"Knudge/config"
	"Knudge/internal/cache"
	"Knudge/internal/model"
	"Knudge/internal/onboarding"
	"Knudge/internal/queue"
	"Knudge/internal/repository"
	pkgerrors "Knudge/pkg/errors"
	"Knudge/pkg/logger"
	"Knudge/pkg/metrics"
	"Knudge/storage/database"
	"Knudge/storage/redis"
)

var (
	onboardingService *OnboardingService
	onboardingOnce    sync.Once
)

// Onboarding 按 ONBOARDING_BACKEND 选择持久化后端，需要在 storage.Init 之后调用
func Onboarding() *OnboardingService {
	onboardingOnce.Do(func() {
		cfg := config.Cfg
		onboardingService = NewOnboardingService(
			newPersister(cfg.OnboardingBackend),
			OnboardingOptions{
				StorageKey:    cfg.OnboardingStorageKey,
				Backend:       cfg.OnboardingBackend,
				PublishEvents: cfg.EventsEnabled,
			},
		)
	})
	return onboardingService
}

// UseOnboarding 替换全局实例
func UseOnboarding(s *OnboardingService) {
	onboardingOnce.Do(func() {})
	onboardingService = s
}

func newPersister(backend string) onboarding.Persister {
	switch backend {
	case "postgres":
		return repository.NewSnapshotRepository(database.DB())
	case "memory":
		return onboarding.NewMemoryPersister()
	default:
		return cache.NewRedisPersister(redis.Client())
	}
}

type OnboardingOptions struct {
	StorageKey    string
	Backend       string
	PublishEvents bool
}

// OnboardingService 每个用户一个会话 Store，首次访问时从后端恢复
type OnboardingService struct {
	persister onboarding.Persister
	opts      OnboardingOptions

	mu     sync.Mutex
	stores map[string]*onboarding.Store
	loads  singleflight.Group
}

func NewOnboardingService(persister onboarding.Persister, opts OnboardingOptions) *OnboardingService {
	if opts.StorageKey == "" {
		opts.StorageKey = "knudge-onboarding"
	}
	return &OnboardingService{
		persister: persister,
		opts:      opts,
		stores:    make(map[string]*onboarding.Store),
	}
}

// StorageKey 用户会话的持久化 key：knudge-onboarding:{user_id}
func (s *OnboardingService) StorageKey(userID string) string {
	return s.opts.StorageKey + ":" + userID
}

func (s *OnboardingService) store(ctx context.Context, userID string) (*onboarding.Store, error) {
	if userID == "" {
		return nil, pkgerrors.Unauthorized
	}

	if st, ok := s.cached(userID); ok {
		return st, nil
	}

	// 同一用户的并发首访共享一次 Load，不同用户之间互不阻塞
	v, err, _ := s.loads.Do(userID, func() (interface{}, error) {
		if st, ok := s.cached(userID); ok {
			return st, nil
		}

		st := onboarding.NewStore(s.StorageKey(userID), s.persister)
		if err := st.Load(ctx); err != nil {
			if !errors.Is(err, onboarding.ErrCorruptSnapshot) {
				return nil, err
			}
			logger.Logger.Warn("Onboarding snapshot unreadable, starting from defaults",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
		st.Subscribe(s.observe(userID))

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.stores[userID]; ok {
			return existing, nil
		}
		s.stores[userID] = st
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*onboarding.Store), nil
}

func (s *OnboardingService) cached(userID string) (*onboarding.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[userID]
	return st, ok
}

// observe 变更之后记录指标并按需投递事件
func (s *OnboardingService) observe(userID string) onboarding.Observer {
	return func(ctx context.Context, change onboarding.Change) {
		if change.Action == onboarding.ActionLoad {
			return
		}
		metrics.RecordOnboardingMutation(ctx, string(change.Action), s.opts.Backend)

		if !s.opts.PublishEvents {
			return
		}

		msg := queue.OnboardingEventMessage{
			UserID:      userID,
			StorageKey:  change.Key,
			Action:      string(change.Action),
			CurrentStep: change.Session.CurrentStep,
			Goal:        string(change.Session.Goal),
			Connections: change.Session.Connections,
			Completed:   change.Session.Completed,
		}
		if err := queue.PublishOnboardingEvent(ctx, msg); err != nil {
			logger.Logger.Warn("Onboarding event dropped",
				zap.String("user_id", userID),
				zap.String("action", msg.Action),
				zap.Error(err),
			)
		}
	}
}

// finish 统一处理写入失败：内存变更已生效，记录日志后把错误交给调用方
func (s *OnboardingService) finish(ctx context.Context, userID string, action onboarding.Action, session model.OnboardingSession, err error) (model.OnboardingSession, error) {
	if err != nil {
		metrics.RecordOnboardingSaveFailed(ctx, string(action), s.opts.Backend)
		logger.Logger.Error("Failed to persist onboarding session",
			zap.String("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}
	return session, err
}

func (s *OnboardingService) Get(ctx context.Context, userID string) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	return st.Snapshot(), nil
}

func (s *OnboardingService) SetStep(ctx context.Context, userID string, step int) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.SetStep(ctx, step)
	return s.finish(ctx, userID, onboarding.ActionSetStep, session, err)
}

// SetGoal goal 为 nil 表示清空，非枚举值返回 OnboardingGoalInvalid
func (s *OnboardingService) SetGoal(ctx context.Context, userID string, goal *string) (model.OnboardingSession, error) {
	value := model.GoalUnset
	if goal != nil {
		parsed, ok := model.ParseGoal(*goal)
		if !ok {
			return model.OnboardingSession{}, pkgerrors.OnboardingGoalInvalid
		}
		value = parsed
	}

	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.SetGoal(ctx, value)
	return s.finish(ctx, userID, onboarding.ActionSetGoal, session, err)
}

func (s *OnboardingService) SetProfile(ctx context.Context, userID string, patch model.ProfilePatch) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.SetProfile(ctx, patch)
	return s.finish(ctx, userID, onboarding.ActionSetProfile, session, err)
}

func (s *OnboardingService) SetVoice(ctx context.Context, userID string, patch model.VoicePatch) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.SetVoice(ctx, patch)
	return s.finish(ctx, userID, onboarding.ActionSetVoice, session, err)
}

func (s *OnboardingService) SetKnowledge(ctx context.Context, userID string, patch model.KnowledgePatch) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.SetKnowledge(ctx, patch)
	return s.finish(ctx, userID, onboarding.ActionSetKnowledge, session, err)
}

func (s *OnboardingService) AddConnection(ctx context.Context, userID, platform string) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.AddConnection(ctx, platform)
	return s.finish(ctx, userID, onboarding.ActionAddConnection, session, err)
}

func (s *OnboardingService) SetTrial(ctx context.Context, userID string, patch model.TrialPatch) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.SetTrial(ctx, patch)
	return s.finish(ctx, userID, onboarding.ActionSetTrial, session, err)
}

func (s *OnboardingService) Complete(ctx context.Context, userID string) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.CompleteOnboarding(ctx)
	return s.finish(ctx, userID, onboarding.ActionComplete, session, err)
}

func (s *OnboardingService) Reset(ctx context.Context, userID string) (model.OnboardingSession, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return model.OnboardingSession{}, err
	}
	session, err := st.Reset(ctx)
	return s.finish(ctx, userID, onboarding.ActionReset, session, err)
}
