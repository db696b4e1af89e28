// Package onboarding 持有单个用户的引导会话：默认值、合并式 setter、持久化与变更通知。
package onboarding

import (
	"context"
	"fmt"
	"sync"

	"Knudge/internal/model"
)

// Action 变更动作名，随变更通知与事件一起下发
type Action string

const (
	ActionLoad          Action = "load"
	ActionSetStep       Action = "set_step"
	ActionSetGoal       Action = "set_goal"
	ActionSetProfile    Action = "set_profile"
	ActionSetVoice      Action = "set_voice"
	ActionSetKnowledge  Action = "set_knowledge"
	ActionAddConnection Action = "add_connection"
	ActionSetTrial      Action = "set_trial"
	ActionComplete      Action = "complete"
	ActionReset         Action = "reset"
)

// Change 一次变更之后的会话快照
type Change struct {
	Key     string
	Action  Action
	Session model.OnboardingSession
}

// Observer 变更观察者，在 Store 锁释放后同步调用
type Observer func(ctx context.Context, change Change)

// Store 单个引导会话。每次变更都会把整份快照写入 Persister，然后通知观察者。
// 写入失败时内存中的变更仍然生效，错误返回给调用方。
type Store struct {
	key       string
	persister Persister

	mu      sync.Mutex
	session model.OnboardingSession

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObsID int
}

func NewStore(key string, persister Persister) *Store {
	return &Store{
		key:       key,
		persister: persister,
		session:   model.DefaultOnboardingSession(),
		observers: make(map[int]Observer),
	}
}

func (s *Store) Key() string {
	return s.key
}

// Load 从持久化后端恢复会话；没有快照时保持默认值。
// 快照损坏时回退到默认值并返回错误。
func (s *Store) Load(ctx context.Context) error {
	data, err := s.persister.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load onboarding snapshot: %w", err)
	}

	session, rehydrateErr := Rehydrate(data)

	s.mu.Lock()
	s.session = session
	snapshot := s.session.Clone()
	s.mu.Unlock()

	s.notify(ctx, Change{Key: s.key, Action: ActionLoad, Session: snapshot})

	return rehydrateErr
}

// Save 把当前快照整体写入持久化后端
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := Encode(s.session)
	if err != nil {
		return err
	}

	if err := s.persister.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save onboarding snapshot: %w", err)
	}
	return nil
}

// Snapshot 返回当前会话的深拷贝
func (s *Store) Snapshot() model.OnboardingSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Clone()
}

// Subscribe 注册观察者，返回取消订阅函数
func (s *Store) Subscribe(observer Observer) func() {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = observer
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// SetStep 直接替换当前步骤，不做范围与单调性校验
func (s *Store) SetStep(ctx context.Context, step int) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionSetStep, func(session *model.OnboardingSession) {
		session.CurrentStep = step
	})
}

func (s *Store) SetGoal(ctx context.Context, goal model.Goal) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionSetGoal, func(session *model.OnboardingSession) {
		session.Goal = goal
	})
}

func (s *Store) SetProfile(ctx context.Context, patch model.ProfilePatch) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionSetProfile, func(session *model.OnboardingSession) {
		session.Profile = session.Profile.Merge(patch)
	})
}

func (s *Store) SetVoice(ctx context.Context, patch model.VoicePatch) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionSetVoice, func(session *model.OnboardingSession) {
		session.Voice = session.Voice.Merge(patch)
	})
}

func (s *Store) SetKnowledge(ctx context.Context, patch model.KnowledgePatch) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionSetKnowledge, func(session *model.OnboardingSession) {
		session.Knowledge = session.Knowledge.Merge(patch)
	})
}

// AddConnection 已存在的平台不会重复加入
func (s *Store) AddConnection(ctx context.Context, platform string) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionAddConnection, func(session *model.OnboardingSession) {
		if session.HasConnection(platform) {
			return
		}
		session.Connections = append(session.Connections, platform)
	})
}

func (s *Store) SetTrial(ctx context.Context, patch model.TrialPatch) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionSetTrial, func(session *model.OnboardingSession) {
		session.Trial = session.Trial.Merge(patch)
	})
}

// CompleteOnboarding 只打完成标记，不检查前面的步骤是否填写
func (s *Store) CompleteOnboarding(ctx context.Context) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionComplete, func(session *model.OnboardingSession) {
		session.Completed = true
	})
}

func (s *Store) Reset(ctx context.Context) (model.OnboardingSession, error) {
	return s.mutate(ctx, ActionReset, func(session *model.OnboardingSession) {
		*session = model.DefaultOnboardingSession()
	})
}

// mutate 在锁内修改并落盘，写入顺序与变更顺序一致；观察者在锁外通知
func (s *Store) mutate(ctx context.Context, action Action, apply func(*model.OnboardingSession)) (model.OnboardingSession, error) {
	s.mu.Lock()
	apply(&s.session)
	snapshot := s.session.Clone()
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()

	s.notify(ctx, Change{Key: s.key, Action: action, Session: snapshot})

	return snapshot, saveErr
}

func (s *Store) notify(ctx context.Context, change Change) {
	s.obsMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.obsMu.RUnlock()

	for _, obs := range observers {
		obs(ctx, change)
	}
}
