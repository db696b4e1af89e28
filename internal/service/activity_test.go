package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/internal/feed"
	pkgerrors "Knudge/pkg/errors"
)

func TestActivityServiceFetchesUntilExhausted(t *testing.T) {
	ctx := context.Background()
	svc := NewActivityService(feed.NewMockProvider(0, 1))
	defer svc.Shutdown()

	initial, err := svc.Feed(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, initial.Total)
	assert.True(t, initial.HasMore)

	total := initial.Total
	for i := 0; i < 4; i++ {
		resp, err := svc.FetchMore(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, resp.Appended, 10)
		total = resp.Feed.Total
	}
	assert.Equal(t, 50, total)

	resp, err := svc.FetchMore(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, resp.Appended)
	assert.False(t, resp.Feed.HasMore)
	assert.Equal(t, 50, resp.Feed.Total)
}

func TestActivityServiceCloseViewStartsOver(t *testing.T) {
	ctx := context.Background()
	svc := NewActivityService(feed.NewMockProvider(0, 1))
	defer svc.Shutdown()

	_, err := svc.FetchMore(ctx, "u1")
	require.NoError(t, err)

	assert.True(t, svc.CloseView(ctx, "u1"))
	assert.False(t, svc.CloseView(ctx, "u1"))

	resp, err := svc.Feed(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Total)
}

func TestActivityServiceRequiresUser(t *testing.T) {
	svc := NewActivityService(feed.NewMockProvider(0, 1))
	defer svc.Shutdown()

	_, err := svc.FetchMore(context.Background(), "")
	assert.ErrorIs(t, err, pkgerrors.Unauthorized)
}
