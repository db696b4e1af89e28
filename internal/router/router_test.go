package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/config"
	"Knudge/internal/feed"
	"Knudge/internal/middleware"
	"Knudge/internal/onboarding"
	"Knudge/internal/service"
	"Knudge/pkg/token"
)

func TestMain(m *testing.M) {
	config.Cfg.RateLimitEnabled = false
	if err := token.Init(); err != nil {
		panic(err)
	}
	if err := middleware.Init(); err != nil {
		panic(err)
	}

	service.UseAuth(service.NewAuthService(service.NewLocalLoginGuard(), 0))
	service.UseOnboarding(service.NewOnboardingService(onboarding.NewMemoryPersister(), service.OnboardingOptions{Backend: "memory"}))
	service.UseActivity(service.NewActivityService(feed.NewMockProvider(0, 1)))

	os.Exit(m.Run())
}

func newEngine() *route.Engine {
	engine := route.NewEngine(hertzconfig.NewOptions([]hertzconfig.Option{}))
	Register(engine)
	return engine
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newEngine()

	for _, path := range []string{"/v1/onboarding", "/v1/activities", "/v1/contacts", "/v1/circles", "/v1/platforms"} {
		w := ut.PerformRequest(engine, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLoginThenOnboarding(t *testing.T) {
	engine := newEngine()

	w := ut.PerformRequest(engine, http.MethodPost, "/v1/auth/login/linkedin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data struct {
			UserID      string `json:"user_id"`
			AccessToken string `json:"access_token"`
			Next        string `json:"next"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "/onboarding/goal", login.Data.Next)

	bearer := ut.Header{Key: "Authorization", Value: "Bearer " + login.Data.AccessToken}
	jsonHeader := ut.Header{Key: "Content-Type", Value: "application/json"}

	body := []byte(`{"goal":"stay_connected"}`)
	w = ut.PerformRequest(engine, http.MethodPut, "/v1/onboarding/goal",
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)}, bearer, jsonHeader)
	require.Equal(t, http.StatusOK, w.Code)

	w = ut.PerformRequest(engine, http.MethodGet, "/v1/onboarding", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Data struct {
			Session struct {
				Goal        string `json:"goal"`
				CurrentStep int    `json:"current_step"`
			} `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "stay_connected", got.Data.Session.Goal)
	assert.Equal(t, 1, got.Data.Session.CurrentStep)
}

func TestLoginRejectsUnknownProvider(t *testing.T) {
	engine := newEngine()

	w := ut.PerformRequest(engine, http.MethodPost, "/v1/auth/login/myspace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
