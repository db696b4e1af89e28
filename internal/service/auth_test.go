package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/internal/model/dto"
	pkgerrors "Knudge/pkg/errors"
	"Knudge/pkg/token"
	"Knudge/storage/redis"
)

func TestLoginIssuesToken(t *testing.T) {
	svc := NewAuthService(NewLocalLoginGuard(), 0)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Provider: "google", DeviceID: "d1"})
	require.NoError(t, err)

	assert.Equal(t, NextOnboardingRoute, resp.Next)
	assert.Equal(t, "google", resp.Provider)
	assert.Positive(t, resp.ExpiresIn)

	uid, err := token.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, uid)
}

func TestLoginRejectsUnknownProvider(t *testing.T) {
	svc := NewAuthService(NewLocalLoginGuard(), 0)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Provider: "facebook", DeviceID: "d1"})
	assert.ErrorIs(t, err, pkgerrors.AuthProviderInvalid)
}

func TestLoginRejectsConcurrentAttempt(t *testing.T) {
	guard := NewLocalLoginGuard()
	svc := NewAuthService(guard, 200*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.Login(context.Background(), dto.LoginRequest{Provider: "linkedin", DeviceID: "d1"})
	}()

	require.Eventually(t, func() bool {
		guard.mu.Lock()
		defer guard.mu.Unlock()
		_, held := guard.pending["d1"]
		return held
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Provider: "linkedin", DeviceID: "d1"})
	assert.ErrorIs(t, err, pkgerrors.LoginInProgress)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Provider: "linkedin", DeviceID: "d2"})
	assert.NoError(t, err)

	wg.Wait()
	require.NoError(t, firstErr)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Provider: "google", DeviceID: "d1"})
	assert.NoError(t, err)
}

func TestLoginCanceledReleasesGuard(t *testing.T) {
	svc := NewAuthService(NewLocalLoginGuard(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Login(ctx, dto.LoginRequest{Provider: "google", DeviceID: "d1"})
	require.ErrorIs(t, err, context.Canceled)

	fast := NewAuthService(svc.guard, 0)
	_, err = fast.Login(context.Background(), dto.LoginRequest{Provider: "google", DeviceID: "d1"})
	assert.NoError(t, err)
}

func TestRedisLoginGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
		redis.SetClient(nil)
	})

	guard := &RedisLoginGuard{TTL: 10 * time.Second}
	ctx := context.Background()

	release, ok, err := guard.Acquire(ctx, "d1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists(redis.Key("lock", "login:d1")))

	_, ok, err = guard.Acquire(ctx, "d1")
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, mr.Exists(redis.Key("lock", "login:d1")))

	_, ok, err = guard.Acquire(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, ok)
}
