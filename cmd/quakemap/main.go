package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-map-service/internal/adapter/api"
	"github.com/couchcryptid/quake-map-service/internal/adapter/cluster"
	"github.com/couchcryptid/quake-map-service/internal/adapter/geocache"
	"github.com/couchcryptid/quake-map-service/internal/adapter/googlemaps"
	"github.com/couchcryptid/quake-map-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/adapter/nominatim"
	"github.com/couchcryptid/quake-map-service/internal/adapter/styles"
	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/couchcryptid/quake-map-service/internal/render"
	"github.com/couchcryptid/quake-map-service/internal/search"
	"github.com/couchcryptid/quake-map-service/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	geocoder, err := newGeocoder(cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to create geocoder", "error", err)
		os.Exit(1)
	}

	styleTable, err := styles.Load(cfg.MapStylesFile)
	if err != nil {
		logger.Error("failed to load map styles", "error", err)
		os.Exit(1)
	}
	mode, err := domain.ParseViewMode(cfg.DefaultViewMode)
	if err != nil {
		logger.Error("invalid VIEW_MODE", "error", err)
		os.Exit(1)
	}
	style, err := domain.ParseMapStyleID(cfg.MapStyle)
	if err != nil {
		logger.Error("invalid MAP_STYLE", "error", err)
		os.Exit(1)
	}

	store := session.NewStore(session.InitialState(mode, style), logger)

	renderer, err := render.NewCoordinator(metrics, render.DefaultStrategies(cluster.New())...)
	if err != nil {
		logger.Error("failed to create renderer", "error", err)
		os.Exit(1)
	}

	searcher := search.New(search.Config{
		Geocoder: geocoder,
		Nav:      store,
		Timeout:  cfg.GeocoderTimeout,
		Logger:   logger,
		Metrics:  metrics,
	})

	opts := []pipeline.Option{pipeline.WithSchedule(cfg.FeedRefreshSchedule)}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}
	feed := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	p := pipeline.New(feed, store, logger, metrics, opts...)

	gin.SetMode(gin.ReleaseMode)
	handler := api.New(api.Deps{
		Store:    store,
		Renderer: renderer,
		Search:   searcher,
		Styles:   styleTable,
		Ready:    p,
		Logger:   logger,
	})
	srv := httpadapter.NewServer(cfg.HTTPAddr, handler.Engine(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start feed pipeline.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	searcher.Close()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func newGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, error) {
	var inner domain.Geocoder
	switch cfg.GeocoderProvider {
	case config.GeocoderNominatim:
		inner = nominatim.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocoderTimeout, metrics, logger)
	case config.GeocoderMapbox:
		inner = mapbox.NewClient(cfg.MapboxToken, cfg.GeocoderTimeout, metrics, logger)
	case config.GeocoderGoogle:
		client, err := googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.GeocoderTimeout, metrics, logger)
		if err != nil {
			return nil, err
		}
		inner = client
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.GeocoderProvider)
	}

	cached, err := geocache.New(inner, cfg.GeocoderCacheSize, metrics)
	if err != nil {
		return nil, err
	}
	logger.Info("geocoding enabled", "provider", cfg.GeocoderProvider, "cache_size", cfg.GeocoderCacheSize, "timeout", cfg.GeocoderTimeout)
	return cached, nil
}
