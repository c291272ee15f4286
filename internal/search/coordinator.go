// Package search resolves free-text place queries and re-centres the map.
//
// Each submission gets a sequence number and cancels the lookup before it.
// Only the latest submission may move the map or enter the history, so a
// slow early response can never override a later one.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/session"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// HistoryCapacity bounds the recent-search list.
const HistoryCapacity = 5

const defaultTimeout = 5 * time.Second

// ErrNoHistoryEntry is returned by Recall for an index outside the history.
var ErrNoHistoryEntry = errors.New("no such history entry")

// HistoryEntry is one successful search, newest first in History.
type HistoryEntry struct {
	Query     string        `json:"query"`
	Coords    domain.LatLng `json:"coords"`
	Timestamp time.Time     `json:"timestamp"`
}

// Ticket identifies an accepted submission.
type Ticket struct {
	Seq       uint64 `json:"seq"`
	RequestID string `json:"request_id"`
}

// Navigator applies viewport changes. *session.Store satisfies it.
type Navigator interface {
	Dispatch(a session.Action) (session.State, error)
}

// Coordinator runs geocode lookups and owns the search history.
type Coordinator struct {
	geocoder domain.Geocoder
	nav      Navigator
	clock    clockwork.Clock
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	pending int
	history []HistoryEntry

	wg sync.WaitGroup
}

// Config holds the collaborators of a Coordinator.
type Config struct {
	Geocoder domain.Geocoder
	Nav      Navigator
	Clock    clockwork.Clock
	Timeout  time.Duration
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// New creates a Coordinator. A nil Clock uses the real clock and a
// non-positive Timeout falls back to five seconds.
func New(cfg Config) *Coordinator {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Coordinator{
		geocoder: cfg.Geocoder,
		nav:      cfg.Nav,
		clock:    clock,
		timeout:  timeout,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		history:  []HistoryEntry{},
	}
}

// Submit starts an asynchronous lookup for query. Blank queries are
// ignored and return false. The lookup outlives ctx's cancellation but
// keeps its values.
func (c *Coordinator) Submit(ctx context.Context, query string) (Ticket, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Ticket{}, false
	}

	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)

	c.mu.Lock()
	c.supersede()
	ticket := Ticket{Seq: c.seq, RequestID: uuid.NewString()}
	c.cancel = cancel
	c.pending++
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		c.lookup(lookupCtx, ticket, query)
	}()
	return ticket, true
}

func (c *Coordinator) lookup(ctx context.Context, ticket Ticket, query string) {
	log := c.logger.With("query", query, "seq", ticket.Seq, "request_id", ticket.RequestID)
	result, err := c.geocoder.Geocode(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if ticket.Seq != c.seq {
		c.metrics.SearchSubmissions.WithLabelValues("stale").Inc()
		log.Debug("discarding superseded search result")
		return
	}
	c.cancel = nil

	switch {
	case errors.Is(err, domain.ErrNoMatch):
		c.metrics.SearchSubmissions.WithLabelValues("no_match").Inc()
		log.Info("search found no match")
		return
	case err != nil:
		c.metrics.SearchSubmissions.WithLabelValues("error").Inc()
		log.Warn("search failed", "error", err)
		return
	}

	coords := result.LatLng()
	if _, err := c.nav.Dispatch(session.CenterOn{Position: coords, Zoom: domain.SearchZoom}); err != nil {
		c.metrics.SearchSubmissions.WithLabelValues("error").Inc()
		log.Warn("search navigation failed", "error", err)
		return
	}
	c.pushHistory(HistoryEntry{Query: query, Coords: coords, Timestamp: c.clock.Now()})
	c.metrics.SearchSubmissions.WithLabelValues("success").Inc()
	log.Info("search centred map", "lat", coords.Lat, "lng", coords.Lng)
}

// pushHistory prepends e and truncates. Callers hold c.mu.
func (c *Coordinator) pushHistory(e HistoryEntry) {
	next := make([]HistoryEntry, 0, HistoryCapacity)
	next = append(next, e)
	for _, old := range c.history {
		if len(next) == HistoryCapacity {
			break
		}
		next = append(next, old)
	}
	c.history = next
}

// History returns the recent searches, newest first.
func (c *Coordinator) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// Pending reports whether a lookup is still in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Recall re-centres the map on history entry i without a new lookup.
// The history itself is unchanged. A lookup still in flight is
// superseded, so it cannot move the map afterwards.
func (c *Coordinator) Recall(i int) (HistoryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.history) {
		return HistoryEntry{}, fmt.Errorf("%w: %d", ErrNoHistoryEntry, i)
	}
	entry := c.history[i]
	c.supersede()
	if _, err := c.nav.Dispatch(session.CenterOn{Position: entry.Coords, Zoom: domain.SearchZoom}); err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

// Supersede cancels the in-flight lookup and discards its result. Callers
// use it when the user moves the map by hand.
func (c *Coordinator) Supersede() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersede()
}

// supersede cancels the current lookup and advances the sequence so any
// result already on its way is treated as stale. Callers hold c.mu.
func (c *Coordinator) supersede() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
}

// Wait blocks until every started lookup has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close cancels the in-flight lookup and waits for it to return.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.Wait()
}
