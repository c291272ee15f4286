package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/couchcryptid/quake-map-service/internal/session"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockExtractor struct {
	events []domain.SeismicEvent
	err    error
	calls  atomic.Int64
}

func (m *mockExtractor) FetchEvents(_ context.Context) ([]domain.SeismicEvent, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published [][]domain.SeismicEvent
	err       error
}

func (m *mockPublisher) PublishSnapshot(_ context.Context, events []domain.SeismicEvent, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, events)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore() *session.Store {
	return session.NewStore(session.InitialState(domain.ViewStandard, domain.DefaultMapStyleID), discardLogger())
}

func threeEvents() []domain.SeismicEvent {
	return []domain.SeismicEvent{
		{ID: "a", Magnitude: 2.1},
		{ID: "b", Magnitude: 4.0},
		{ID: "c", Magnitude: 6.0},
	}
}

// --- tests ---

func TestPipeline_Load_HappyPath(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	ext := &mockExtractor{events: threeEvents()}
	store := newStore()
	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, store, discardLogger(), metrics,
		pipeline.WithPublisher(pub), pipeline.WithClock(clock))

	require.Error(t, p.CheckReadiness(context.Background()))
	require.NoError(t, p.Load(context.Background()))

	require.NoError(t, p.CheckReadiness(context.Background()))
	feed := store.Feed()
	assert.Equal(t, session.FeedReady, feed.Status)
	assert.Equal(t, clock.Now(), feed.FetchedAt)
	if diff := cmp.Diff(threeEvents(), feed.Events); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, pub.published, 1)
	assert.Len(t, pub.published[0], 3)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.MessagesProduced), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.FeedEvents), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FeedLoaded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FeedFetches.WithLabelValues("success")), 0)
}

func TestPipeline_Load_FailureStaysLoading(t *testing.T) {
	ext := &mockExtractor{err: errors.New("dial tcp: connection refused")}
	store := newStore()
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, store, discardLogger(), metrics)
	err := p.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load feed")

	assert.False(t, p.Ready())
	assert.Equal(t, session.FeedLoading, store.Feed().Status)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FeedFetches.WithLabelValues("error")), 0)
}

func TestPipeline_Load_PublishFailureKeepsSnapshot(t *testing.T) {
	ext := &mockExtractor{events: threeEvents()}
	store := newStore()
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, store, discardLogger(), metrics,
		pipeline.WithPublisher(&mockPublisher{err: errors.New("broker down")}))

	require.NoError(t, p.Load(context.Background()))
	assert.True(t, p.Ready())
	assert.Equal(t, 3, store.Feed().Count)
	assert.Zero(t, testutil.ToFloat64(metrics.MessagesProduced))
}

func TestPipeline_Run_OneShotNoRetry(t *testing.T) {
	ext := &mockExtractor{err: errors.New("timeout")}
	p := pipeline.New(ext, newStore(), discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, int64(1), ext.calls.Load())
	assert.False(t, p.Ready())
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{events: threeEvents()}
	p := pipeline.New(ext, newStore(), discardLogger(), observability.NewMetricsForTesting(),
		pipeline.WithSchedule("*/5 * * * *"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, p.Ready, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPipeline_Run_ScheduledRefresh(t *testing.T) {
	ext := &mockExtractor{events: threeEvents()}
	p := pipeline.New(ext, newStore(), discardLogger(), observability.NewMetricsForTesting(),
		pipeline.WithSchedule("@every 1s"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	require.Eventually(t, func() bool { return ext.calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
}

func TestPipeline_Run_BadSchedule(t *testing.T) {
	ext := &mockExtractor{events: threeEvents()}
	p := pipeline.New(ext, newStore(), discardLogger(), observability.NewMetricsForTesting(),
		pipeline.WithSchedule("whenever"))

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, p.Ready(), "initial load still happens")
}
