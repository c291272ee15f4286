package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/search"
	"github.com/couchcryptid/quake-map-service/internal/session"
	"github.com/gin-gonic/gin"
)

type filtersRequest struct {
	Tiers *domain.TierSet `json:"tiers"`
}

type viewModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type mapStyleRequest struct {
	Style string `json:"style" binding:"required"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleState(c *gin.Context) {
	state, feed := s.deps.Store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"state":     state,
		"feed":      feed,
		"searching": s.deps.Search.Pending(),
	})
}

// handleFrame renders the filtered feed for the session. The client may
// report its current north edge and zoom, which apply to this frame only.
func (s *Server) handleFrame(c *gin.Context) {
	state, feed := s.deps.Store.Snapshot()
	events := domain.ApplyFilter(feed.Events, state.Criteria)
	vp := state.Viewport

	if v := c.Query("zoom"); v != "" {
		zoom, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom"})
			return
		}
		vp.Zoom = domain.ClampZoom(zoom)
		vp.North = domain.EstimateNorth(vp.Center, vp.Zoom)
	}
	if v := c.Query("north"); v != "" {
		north, err := strconv.ParseFloat(v, 64)
		if err != nil || north < -90 || north > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid north"})
			return
		}
		vp.North = north
	}

	frame, err := s.deps.Renderer.Render(c.Request.Context(), state.ViewMode, events, vp)
	if err != nil {
		s.deps.Logger.Error("render frame", "mode", state.ViewMode, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feed":  feed,
		"frame": frame,
	})
}

// handleStats summarises the whole feed, ignoring the tier filter, so the
// filter badges can show what each tier would add.
func (s *Server) handleStats(c *gin.Context) {
	feed := s.deps.Store.Feed()
	c.JSON(http.StatusOK, gin.H{
		"feed":    feed,
		"summary": domain.Summarize(feed.Events),
	})
}

func (s *Server) handleSetFilters(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Tiers == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tiers is required"})
		return
	}
	s.dispatch(c, session.SetTiers{Tiers: *req.Tiers})
}

func (s *Server) handleToggleTier(c *gin.Context) {
	tier, err := domain.ParseTier(c.Param("tier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.dispatch(c, session.ToggleTier{Tier: tier})
}

func (s *Server) handleSetViewMode(c *gin.Context) {
	var req viewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := domain.ParseViewMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.dispatch(c, session.SetViewMode{Mode: mode})
}

func (s *Server) handleListStyles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"styles":   s.deps.Styles.List(),
		"selected": s.deps.Store.State().MapStyle,
	})
}

func (s *Server) handleSetStyle(c *gin.Context) {
	var req mapStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := domain.ParseMapStyleID(req.Style)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := s.deps.Styles.Lookup(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.dispatch(c, session.SetMapStyle{Style: id})
}

func (s *Server) handleSetViewport(c *gin.Context) {
	var vp domain.Viewport
	if err := c.ShouldBindJSON(&vp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if vp.Center.Lat < -90 || vp.Center.Lat > 90 || vp.Center.Lng < -180 || vp.Center.Lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "center out of range"})
		return
	}
	if vp.North < -90 || vp.North > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid north"})
		return
	}
	s.deps.Search.Supersede()
	s.dispatch(c, session.SetViewport{Viewport: vp})
}

func (s *Server) handleResetViewport(c *gin.Context) {
	s.deps.Search.Supersede()
	s.dispatch(c, session.ResetViewport{})
}

// handleSearch accepts a query and resolves it in the background. The
// outcome shows up in the session viewport and the history.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, ok := s.deps.Search.Submit(c.Request.Context(), req.Query)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"ticket": ticket})
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"history":   s.deps.Search.History(),
		"searching": s.deps.Search.Pending(),
	})
}

func (s *Server) handleRecall(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}

	entry, err := s.deps.Search.Recall(index)
	if errors.Is(err, search.ErrNoHistoryEntry) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry": entry,
		"state": s.deps.Store.State(),
	})
}

func (s *Server) dispatch(c *gin.Context, a session.Action) {
	state, err := s.deps.Store.Dispatch(a)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownTier),
		errors.Is(err, domain.ErrUnknownViewMode),
		errors.Is(err, domain.ErrUnknownMapStyle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
