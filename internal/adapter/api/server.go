// Package api exposes the session, render and search operations as a JSON
// HTTP API built on gin.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/render"
	"github.com/couchcryptid/quake-map-service/internal/search"
	"github.com/couchcryptid/quake-map-service/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Renderer draws filtered events for one view mode.
type Renderer interface {
	Render(ctx context.Context, mode domain.ViewMode, events []domain.SeismicEvent, vp domain.Viewport) (render.Frame, error)
}

// Searcher accepts place queries and serves the search history.
type Searcher interface {
	Submit(ctx context.Context, query string) (search.Ticket, bool)
	Pending() bool
	History() []search.HistoryEntry
	Recall(i int) (search.HistoryEntry, error)
	Supersede()
}

// Deps are the collaborators the API serves from.
type Deps struct {
	Store    *session.Store
	Renderer Renderer
	Search   Searcher
	Styles   *domain.MapStyleTable
	Ready    sharedobs.ReadinessChecker
	Logger   *slog.Logger
}

// Server bundles the router and its dependencies.
type Server struct {
	deps   Deps
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(deps Deps) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))
	engine.Use(corsMiddleware())

	s := &Server{deps: deps, engine: engine}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	s.engine.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(s.deps.Ready)))
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/state", s.handleState)
		v1.GET("/frame", s.handleFrame)
		v1.GET("/stats", s.handleStats)

		v1.PUT("/filters", s.handleSetFilters)
		v1.POST("/filters/tiers/:tier/toggle", s.handleToggleTier)
		v1.PUT("/view-mode", s.handleSetViewMode)

		v1.GET("/map-styles", s.handleListStyles)
		v1.PUT("/map-style", s.handleSetStyle)

		v1.PUT("/viewport", s.handleSetViewport)
		v1.POST("/viewport/reset", s.handleResetViewport)
	}

	searchGroup := v1.Group("/search")
	{
		searchGroup.POST("", s.handleSearch)
		searchGroup.GET("/history", s.handleHistory)
		searchGroup.POST("/history/:index/recall", s.handleRecall)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
