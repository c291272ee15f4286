package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Store holds the session state and feed snapshot. Readers always receive
// complete values; writers swap them under the lock.
type Store struct {
	mu     sync.RWMutex
	state  State
	feed   Feed
	logger *slog.Logger
}

// NewStore creates a store in the loading state.
func NewStore(initial State, logger *slog.Logger) *Store {
	return &Store{
		state:  initial,
		feed:   Feed{Status: FeedLoading},
		logger: logger,
	}
}

// State returns the current session snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces a into the state and returns the new snapshot.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, a)
	if err != nil {
		return s.state, err
	}
	s.state = next
	s.logger.Debug("session updated", "action", actionName(a), "version", next.Version)
	return next, nil
}

// Feed returns the current feed snapshot.
func (s *Store) Feed() Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed
}

// ReplaceFeed swaps in a new event slice and marks the feed ready. The
// caller must not modify events afterwards.
func (s *Store) ReplaceFeed(events []domain.SeismicEvent, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = Feed{
		Status:    FeedReady,
		Events:    events,
		Count:     len(events),
		FetchedAt: fetchedAt,
	}
}

// Snapshot returns the session state and feed from the same instant.
func (s *Store) Snapshot() (State, Feed) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.feed
}

// Visible applies the current filter to the current feed.
func (s *Store) Visible() (State, []domain.SeismicEvent) {
	state, feed := s.Snapshot()
	return state, domain.ApplyFilter(feed.Events, state.Criteria)
}

func actionName(a Action) string {
	switch a.(type) {
	case SetTiers:
		return "set_tiers"
	case ToggleTier:
		return "toggle_tier"
	case SetViewMode:
		return "set_view_mode"
	case SetMapStyle:
		return "set_map_style"
	case SetViewport:
		return "set_viewport"
	case CenterOn:
		return "center_on"
	case ResetViewport:
		return "reset_viewport"
	default:
		return "unknown"
	}
}
