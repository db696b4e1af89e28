package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Knudge/internal/model"
	"Knudge/internal/onboarding"
	pkgerrors "Knudge/pkg/errors"
)

type brokenPersister struct {
	loadErr error
	saveErr error
	data    []byte
}

func (b *brokenPersister) Load(ctx context.Context, key string) ([]byte, error) {
	return b.data, b.loadErr
}

func (b *brokenPersister) Save(ctx context.Context, key string, data []byte) error {
	return b.saveErr
}

func newTestOnboarding(p onboarding.Persister) *OnboardingService {
	return NewOnboardingService(p, OnboardingOptions{Backend: "memory"})
}

func strPtr(v string) *string { return &v }

func TestOnboardingServiceIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestOnboarding(onboarding.NewMemoryPersister())

	_, err := svc.SetStep(ctx, "alice", 4)
	require.NoError(t, err)

	bob, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.CurrentStep)

	alice, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, alice.CurrentStep)
}

func TestOnboardingServiceRestoresFromPersister(t *testing.T) {
	ctx := context.Background()
	persister := onboarding.NewMemoryPersister()

	first := newTestOnboarding(persister)
	_, err := first.AddConnection(ctx, "u1", "linkedin")
	require.NoError(t, err)
	_, err = first.SetGoal(ctx, "u1", strPtr("grow_business"))
	require.NoError(t, err)

	data, err := persister.Load(ctx, "knudge-onboarding:u1")
	require.NoError(t, err)
	require.NotNil(t, data)

	restarted := newTestOnboarding(persister)
	session, err := restarted.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"linkedin"}, session.Connections)
	assert.Equal(t, model.GoalGrowBusiness, session.Goal)
}

func TestOnboardingServiceSetGoal(t *testing.T) {
	ctx := context.Background()
	svc := newTestOnboarding(onboarding.NewMemoryPersister())

	_, err := svc.SetGoal(ctx, "u1", strPtr("get_rich"))
	require.ErrorIs(t, err, pkgerrors.OnboardingGoalInvalid)

	session, err := svc.SetGoal(ctx, "u1", strPtr("build_brand"))
	require.NoError(t, err)
	assert.Equal(t, model.GoalBuildBrand, session.Goal)

	session, err = svc.SetGoal(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, model.GoalUnset, session.Goal)
}

func TestOnboardingServiceRequiresUser(t *testing.T) {
	svc := newTestOnboarding(onboarding.NewMemoryPersister())

	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, pkgerrors.Unauthorized)
}

func TestOnboardingServiceCorruptSnapshotStartsFresh(t *testing.T) {
	ctx := context.Background()
	svc := newTestOnboarding(&brokenPersister{data: []byte(`not json`)})

	session, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOnboardingSession(), session)
}

func TestOnboardingServiceLoadFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	persister := &brokenPersister{loadErr: errors.New("connection refused")}
	svc := newTestOnboarding(persister)

	_, err := svc.Get(ctx, "u1")
	require.Error(t, err)

	persister.loadErr = nil
	session, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.CurrentStep)
}

// gatedPersister 在指定 key 上阻塞 Load，直到 release 被关闭
type gatedPersister struct {
	gated   string
	entered chan struct{}
	release chan struct{}
	loads   atomic.Int32
}

func (g *gatedPersister) Load(ctx context.Context, key string) ([]byte, error) {
	g.loads.Add(1)
	if key == g.gated {
		close(g.entered)
		<-g.release
	}
	return nil, nil
}

func (g *gatedPersister) Save(ctx context.Context, key string, data []byte) error {
	return nil
}

func TestOnboardingServiceSlowLoadDoesNotBlockOtherUsers(t *testing.T) {
	ctx := context.Background()
	persister := &gatedPersister{
		gated:   "knudge-onboarding:slow",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestOnboarding(persister)

	slowDone := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "slow")
		slowDone <- err
	}()
	<-persister.entered

	fastDone := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "fast")
		fastDone <- err
	}()

	select {
	case err := <-fastDone:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Get for fast user blocked behind slow user's load")
	}

	close(persister.release)
	require.NoError(t, <-slowDone)
}

func TestOnboardingServiceConcurrentFirstAccessSharesStore(t *testing.T) {
	ctx := context.Background()
	persister := &gatedPersister{
		gated:   "knudge-onboarding:u1",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestOnboarding(persister)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.SetStep(ctx, "u1", 3)
			errs <- err
		}()
	}
	<-persister.entered
	close(persister.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	session, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, session.CurrentStep)
	assert.Equal(t, int32(1), persister.loads.Load())
}

func TestOnboardingServiceSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("write timeout")
	svc := newTestOnboarding(&brokenPersister{saveErr: boom})

	session, err := svc.Complete(ctx, "u1")
	require.ErrorIs(t, err, boom)
	assert.True(t, session.Completed)

	current, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, current.Completed)
}

func TestOnboardingServiceResetAfterWizard(t *testing.T) {
	ctx := context.Background()
	svc := newTestOnboarding(onboarding.NewMemoryPersister())

	_, _ = svc.SetProfile(ctx, "u1", model.ProfilePatch{Summary: strPtr("founder")})
	_, _ = svc.SetKnowledge(ctx, "u1", model.KnowledgePatch{ProductName: strPtr("Knudge")})
	_, _ = svc.SetTrial(ctx, "u1", model.TrialPatch{InviteCode: strPtr("BETA")})
	tone := 10
	_, _ = svc.SetVoice(ctx, "u1", model.VoicePatch{Tone: &tone})

	session, err := svc.Reset(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultOnboardingSession(), session)
}
