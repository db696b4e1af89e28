package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/internal/cache"
	"Knudge/pkg/snowflake"
	"Knudge/storage/mq"
	"Knudge/storage/redis"
)

type recordingHandler struct {
	mu   sync.Mutex
	msgs []OnboardingEventMessage
	err  error
}

func (h *recordingHandler) HandleOnboardingEvent(ctx context.Context, msg OnboardingEventMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.msgs = append(h.msgs, msg)
	return nil
}

type memoryDeduper struct {
	mu    sync.Mutex
	state map[string]string
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{state: make(map[string]string)}
}

func (d *memoryDeduper) TryMark(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.state[id]; ok {
		return false, nil
	}
	d.state[id] = "processing"
	return true, nil
}

func (d *memoryDeduper) Unmark(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.state, id)
	return nil
}

func (d *memoryDeduper) Done(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state[id] = "processed"
	return nil
}

func TestPublishOnboardingEvent(t *testing.T) {
	require.NoError(t, snowflake.Init(1, 1))

	var gotKey string
	var gotBody interface{}
	publishFunc = func(ctx context.Context, exchange, routingKey string, body interface{}) error {
		gotKey = routingKey
		gotBody = body
		return nil
	}
	t.Cleanup(func() { publishFunc = mq.PublishMessage })

	err := PublishOnboardingEvent(context.Background(), OnboardingEventMessage{
		UserID:      "u1",
		Action:      "set_step",
		CurrentStep: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "onboarding.set_step", gotKey)
	msg, ok := gotBody.(OnboardingEventMessage)
	require.True(t, ok)
	assert.NotEmpty(t, msg.MessageID)
	assert.False(t, msg.OccurredAt.IsZero())
	assert.Equal(t, 3, msg.CurrentStep)
}

func TestPublishOnboardingEventError(t *testing.T) {
	require.NoError(t, snowflake.Init(1, 1))

	boom := errors.New("channel closed")
	publishFunc = func(ctx context.Context, exchange, routingKey string, body interface{}) error {
		return boom
	}
	t.Cleanup(func() { publishFunc = mq.PublishMessage })

	err := PublishOnboardingEvent(context.Background(), OnboardingEventMessage{MessageID: "m", Action: "reset"})
	assert.ErrorIs(t, err, boom)
}

func TestHandleOnboardingEvent(t *testing.T) {
	ctx := context.Background()
	handler := &recordingHandler{}
	SetOnboardingEventHandler(handler)
	SetMessageDeduper(newMemoryDeduper())
	t.Cleanup(func() {
		SetOnboardingEventHandler(nil)
		SetMessageDeduper(nil)
	})

	body, err := json.Marshal(OnboardingEventMessage{MessageID: "m1", UserID: "u1", Action: "complete", Completed: true})
	require.NoError(t, err)

	require.NoError(t, HandleOnboardingEvent(ctx, body))
	require.NoError(t, HandleOnboardingEvent(ctx, body))

	require.Len(t, handler.msgs, 1)
	assert.True(t, handler.msgs[0].Completed)
}

func TestHandleOnboardingEventFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	handler := &recordingHandler{err: errors.New("downstream unavailable")}
	dedupe := newMemoryDeduper()
	SetOnboardingEventHandler(handler)
	SetMessageDeduper(dedupe)
	t.Cleanup(func() {
		SetOnboardingEventHandler(nil)
		SetMessageDeduper(nil)
	})

	body, err := json.Marshal(OnboardingEventMessage{MessageID: "m2", Action: "reset"})
	require.NoError(t, err)

	err = HandleOnboardingEvent(ctx, body)
	require.Error(t, err)
	assert.NotErrorIs(t, err, mq.ErrDiscard)

	handler.err = nil
	require.NoError(t, HandleOnboardingEvent(ctx, body))
	assert.Len(t, handler.msgs, 1)
}

func TestRedisDeduperCrashedWorkerAllowsRedelivery(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
		redis.SetClient(nil)
	})

	ctx := context.Background()
	dedupe := RedisDeduper{}
	key := redis.Key("msg:processed", "m3")

	first, err := dedupe.TryMark(ctx, "m3")
	require.NoError(t, err)
	require.True(t, first)
	assert.Equal(t, cache.ProcessingTTL, mr.TTL(key))

	mr.FastForward(cache.ProcessingTTL + time.Second)
	first, err = dedupe.TryMark(ctx, "m3")
	require.NoError(t, err)
	require.True(t, first)

	require.NoError(t, dedupe.Done(ctx, "m3"))
	assert.Equal(t, cache.ProcessedTTL, mr.TTL(key))

	first, err = dedupe.TryMark(ctx, "m3")
	require.NoError(t, err)
	assert.False(t, first)
}

func TestHandleOnboardingEventDiscardsGarbage(t *testing.T) {
	SetOnboardingEventHandler(&recordingHandler{})
	t.Cleanup(func() { SetOnboardingEventHandler(nil) })

	err := HandleOnboardingEvent(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, mq.ErrDiscard)
}
