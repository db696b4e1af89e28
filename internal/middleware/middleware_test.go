package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/pkg/token"
	"Knudge/storage/redis"
)

func TestMain(m *testing.M) {
	if err := token.Init(); err != nil {
		panic(err)
	}
	if err := Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newEngine() *route.Engine {
	return route.NewEngine(config.NewOptions([]config.Option{}))
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Error.Code
}

func whoami(ctx context.Context, c *app.RequestContext) {
	uid, _ := GetUserID(ctx, c)
	c.String(http.StatusOK, uid)
}

func TestAuthMiddleware(t *testing.T) {
	engine := newEngine()
	engine.GET("/me", AuthMiddleware(), whoami)

	t.Run("missing token", func(t *testing.T) {
		w := ut.PerformRequest(engine, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w.Body.Bytes()))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := ut.PerformRequest(engine, http.MethodGet, "/me", nil,
			ut.Header{Key: "Authorization", Value: "Bearer not-a-jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("issued token", func(t *testing.T) {
		accessToken, _, err := token.GenerateAccessToken("user-42")
		require.NoError(t, err)

		w := ut.PerformRequest(engine, http.MethodGet, "/me", nil,
			ut.Header{Key: "Authorization", Value: "Bearer " + accessToken})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", w.Body.String())
	})
}

func TestAuthMiddlewareHasDefaultCallbacks(t *testing.T) {
	require.NoError(t, initAuthMiddleware())

	assert.NotNil(t, authMiddleware.Authorizator)
	assert.NotNil(t, authMiddleware.HTTPStatusMessageFunc)
	assert.Equal(t, "Knudge", authMiddleware.Realm)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	engine := newEngine()
	engine.GET("/me", AuthMiddleware(), whoami)

	expired, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		IdentityKey: "user-42",
		"iat":       time.Now().Add(-2 * time.Hour).Unix(),
		"exp":       time.Now().Add(-time.Hour).Unix(),
		"orig_iat":  time.Now().Add(-2 * time.Hour).Unix(),
	}).SignedString(token.GetGenerator().Key)
	require.NoError(t, err)

	w := ut.PerformRequest(engine, http.MethodGet, "/me", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + expired})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w.Body.Bytes()))
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("echoes origin when no allow list", func(t *testing.T) {
		engine := newEngine()
		engine.Use(CORSMiddleware(nil))
		engine.GET("/ping", func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "pong") })

		w := ut.PerformRequest(engine, http.MethodGet, "/ping", nil,
			ut.Header{Key: "Origin", Value: "http://localhost:5173"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list filters origins", func(t *testing.T) {
		engine := newEngine()
		engine.Use(CORSMiddleware([]string{"https://app.knudge.ai"}))
		engine.GET("/ping", func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "pong") })

		w := ut.PerformRequest(engine, http.MethodGet, "/ping", nil,
			ut.Header{Key: "Origin", Value: "https://evil.example"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

		w = ut.PerformRequest(engine, http.MethodGet, "/ping", nil,
			ut.Header{Key: "Origin", Value: "https://app.knudge.ai"})
		assert.Equal(t, "https://app.knudge.ai", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short circuits", func(t *testing.T) {
		engine := newEngine()
		engine.Use(CORSMiddleware(nil))
		engine.OPTIONS("/ping", func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "handler") })

		w := ut.PerformRequest(engine, http.MethodOptions, "/ping", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecoverMiddleware(t *testing.T) {
	engine := newEngine()
	engine.Use(RecoverMiddleware())
	engine.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
		panic("kaboom")
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", errorCode(t, w.Body.Bytes()))
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
		redis.SetClient(nil)
	})

	engine := newEngine()
	engine.POST("/login", RateLimitMiddleware(RateLimitConfig{Window: 60, MaxRequests: 2, KeyPrefix: "rate:test"}),
		func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 2; i++ {
		w := ut.PerformRequest(engine, http.MethodPost, "/login", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := ut.PerformRequest(engine, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, w.Body.Bytes()))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestOpenTelemetryMiddlewarePassesThrough(t *testing.T) {
	engine := newEngine()
	engine.Use(OpenTelemetryMiddleware())
	engine.GET("/contacts/:contact_id", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, c.Param("contact_id"))
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/contacts/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())
}
