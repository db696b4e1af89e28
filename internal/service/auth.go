package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Knudge/config"
	"Knudge/internal/cache"
	"Knudge/internal/model/dto"
	"Knudge/pkg/errors"
	"Knudge/pkg/logger"
	"Knudge/pkg/metrics"
	"Knudge/pkg/token"
)

// NextOnboardingRoute 登录成功后进入的第一个引导页面
const NextOnboardingRoute = "/onboarding/goal"

var (
	authService *AuthService
	authOnce    sync.Once
)

// Auth redis 可用时用分布式锁限制同一设备的并发登录，否则退化为进程内锁
func Auth() *AuthService {
	authOnce.Do(func() {
		var guard LoginGuard = NewLocalLoginGuard()
		if config.Cfg.RedisRequired() {
			guard = &RedisLoginGuard{TTL: time.Duration(config.Cfg.LoginLockSeconds) * time.Second}
		}
		authService = NewAuthService(guard, config.Cfg.LoginDelay())
	})
	return authService
}

// UseAuth 替换全局实例
func UseAuth(s *AuthService) {
	authOnce.Do(func() {})
	authService = s
}

// LoginGuard 同一设备同时只允许一次登录
type LoginGuard interface {
	Acquire(ctx context.Context, deviceID string) (release func(), ok bool, err error)
}

// RedisLoginGuard 基于 SET NX 锁，TTL 兜底防止进程崩溃后锁不释放
type RedisLoginGuard struct {
	TTL time.Duration
}

func (g *RedisLoginGuard) Acquire(ctx context.Context, deviceID string) (func(), bool, error) {
	key := "login:" + deviceID
	owner := uuid.NewString()

	ok, err := cache.TryLock(ctx, key, owner, g.TTL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire login lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	return func() {
		if err := cache.Unlock(context.Background(), key, owner); err != nil {
			logger.Logger.Warn("Failed to release login lock",
				zap.String("device_id", deviceID),
				zap.Error(err),
			)
		}
	}, true, nil
}

type LocalLoginGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewLocalLoginGuard() *LocalLoginGuard {
	return &LocalLoginGuard{pending: make(map[string]struct{})}
}

func (g *LocalLoginGuard) Acquire(ctx context.Context, deviceID string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.pending[deviceID]; held {
		return nil, false, nil
	}
	g.pending[deviceID] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.pending, deviceID)
		g.mu.Unlock()
	}, true, nil
}

// AuthService 模拟第三方登录：等待一段时间后签发新用户的 token
type AuthService struct {
	guard LoginGuard
	delay time.Duration
}

func NewAuthService(guard LoginGuard, delay time.Duration) *AuthService {
	return &AuthService{guard: guard, delay: delay}
}

func isSupportedProvider(provider string) bool {
	return provider == "google" || provider == "linkedin"
}

// Login deviceID 为空时由 handler 填入客户端 IP
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if !isSupportedProvider(req.Provider) {
		metrics.RecordLogin(ctx, req.Provider, "invalid_provider")
		return nil, errors.AuthProviderInvalid
	}

	release, ok, err := s.guard.Acquire(ctx, req.DeviceID)
	if err != nil {
		metrics.RecordLogin(ctx, req.Provider, "error")
		return nil, err
	}
	if !ok {
		metrics.RecordLogin(ctx, req.Provider, "in_progress")
		return nil, errors.LoginInProgress
	}
	defer release()

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.RecordLogin(ctx, req.Provider, "canceled")
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	userID := uuid.NewString()
	accessToken, expiresIn, err := token.GenerateAccessToken(userID)
	if err != nil {
		metrics.RecordLogin(ctx, req.Provider, "error")
		return nil, err
	}

	metrics.RecordLogin(ctx, req.Provider, "success")
	logger.Logger.Info("User logged in",
		zap.String("user_id", userID),
		zap.String("provider", req.Provider),
	)

	return &dto.LoginResponse{
		UserID:      userID,
		Provider:    req.Provider,
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		Next:        NextOnboardingRoute,
	}, nil
}
