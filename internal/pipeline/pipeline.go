// Package pipeline loads the event feed into the session store and
// optionally republishes each snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

// FeedExtractor fetches the complete current event list.
type FeedExtractor interface {
	FetchEvents(ctx context.Context) ([]domain.SeismicEvent, error)
}

// SnapshotLoader receives each new snapshot. *session.Store satisfies it.
type SnapshotLoader interface {
	ReplaceFeed(events []domain.SeismicEvent, fetchedAt time.Time)
}

// SnapshotPublisher forwards a snapshot downstream.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, events []domain.SeismicEvent, fetchedAt time.Time) error
}

// Pipeline orchestrates the fetch-replace-publish cycle.
type Pipeline struct {
	extractor FeedExtractor
	loader    SnapshotLoader
	publisher SnapshotPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	schedule  string
	ready     atomic.Bool
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPublisher republishes every loaded snapshot.
func WithPublisher(p SnapshotPublisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithSchedule refreshes the feed on a standard cron schedule after the
// initial load.
func WithSchedule(schedule string) Option {
	return func(pl *Pipeline) { pl.schedule = schedule }
}

// WithClock sets the clock used for snapshot timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(pl *Pipeline) { pl.clock = c }
}

// New creates a Pipeline with the given stages and observability.
func New(e FeedExtractor, l SnapshotLoader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: e,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a feed snapshot has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("feed has not been loaded yet")
	}
	return nil
}

// Ready reports whether a snapshot has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Load fetches the feed once and replaces the snapshot. On failure the
// previous snapshot (or the loading state) is kept.
func (p *Pipeline) Load(ctx context.Context) error {
	start := p.clock.Now()

	events, err := p.extractor.FetchEvents(ctx)
	if err != nil {
		p.metrics.FeedFetches.WithLabelValues("error").Inc()
		return fmt.Errorf("load feed: %w", err)
	}

	fetchedAt := p.clock.Now()
	p.loader.ReplaceFeed(events, fetchedAt)
	p.ready.Store(true)

	p.metrics.FeedFetches.WithLabelValues("success").Inc()
	p.metrics.FeedFetchDuration.Observe(fetchedAt.Sub(start).Seconds())
	p.metrics.FeedEvents.Set(float64(len(events)))
	p.metrics.FeedLoaded.Set(1)
	p.logger.Info("feed loaded", "events", len(events), "duration", fetchedAt.Sub(start))

	if p.publisher != nil {
		if err := p.publisher.PublishSnapshot(ctx, events, fetchedAt); err != nil {
			p.logger.Error("publish snapshot failed", "error", err, "events", len(events))
		} else {
			p.metrics.MessagesProduced.Add(float64(len(events)))
		}
	}
	return nil
}

// Run performs the initial load and, when a schedule is configured, keeps
// refreshing until ctx is cancelled. A failed initial load is logged and
// not retried; the service stays in the loading state.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "schedule", p.schedule)

	if err := p.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Error("initial feed load failed", "error", err)
	}

	if p.schedule == "" {
		return nil
	}

	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(p.logger.Handler(), slog.LevelDebug))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(p.schedule, func() { p.refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule feed refresh: %w", err)
	}
	c.Start()

	<-ctx.Done()
	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}

func (p *Pipeline) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.Load(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("feed refresh failed, keeping previous snapshot", "error", err)
	}
}
