// Package render turns a filtered event list into a drawable frame for the
// active view mode.
package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
)

// Coordinator dispatches to exactly one Strategy per render.
type Coordinator struct {
	strategies map[domain.ViewMode]Strategy
	metrics    *observability.Metrics
}

// NewCoordinator requires exactly one strategy for every view mode.
func NewCoordinator(metrics *observability.Metrics, strategies ...Strategy) (*Coordinator, error) {
	byMode := make(map[domain.ViewMode]Strategy, len(domain.AllViewModes))
	for _, s := range strategies {
		mode := s.Mode()
		if !mode.Valid() {
			return nil, fmt.Errorf("strategy for %w: %q", domain.ErrUnknownViewMode, mode)
		}
		if _, dup := byMode[mode]; dup {
			return nil, fmt.Errorf("duplicate strategy for view mode %q", mode)
		}
		byMode[mode] = s
	}
	var missing []error
	for _, mode := range domain.AllViewModes {
		if _, ok := byMode[mode]; !ok {
			missing = append(missing, fmt.Errorf("no strategy for view mode %q", mode))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}
	return &Coordinator{strategies: byMode, metrics: metrics}, nil
}

// Render draws events, which must already be filtered, in the given mode.
// The summary is computed over the same events.
func (c *Coordinator) Render(ctx context.Context, mode domain.ViewMode, events []domain.SeismicEvent, vp domain.Viewport) (Frame, error) {
	s, ok := c.strategies[mode]
	if !ok {
		return Frame{}, fmt.Errorf("%w: %q", domain.ErrUnknownViewMode, mode)
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	frame, err := s.Render(ctx, events, vp)
	if err != nil {
		return Frame{}, fmt.Errorf("render %s: %w", mode, err)
	}
	frame.Mode = mode
	frame.Viewport = vp
	frame.Summary = domain.Summarize(events)

	c.metrics.FramesRendered.WithLabelValues(string(mode)).Inc()
	c.metrics.RenderedObjects.Observe(float64(frame.Objects()))
	return frame, nil
}
