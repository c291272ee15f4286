package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Geocoding providers.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
	GeocoderGoogle    = "google"
)

// DefaultFeedURL is the USGS summary feed of all events in the past day.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Feed configuration.
	FeedURL             string
	FeedTimeout         time.Duration
	FeedRefreshSchedule string

	// Geocoding configuration.
	GeocoderProvider   string
	GeocoderTimeout    time.Duration
	GeocoderCacheSize  int
	NominatimURL       string
	NominatimUserAgent string
	MapboxToken        string
	GoogleMapsAPIKey   string

	// Map presentation.
	MapStyle        string
	MapStylesFile   string
	DefaultViewMode string

	// Optional snapshot publishing.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether feed snapshots are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	geocoderTimeout, err := parsePositiveDuration("GEOCODER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("GEOCODER_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedURL:             sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedTimeout:         feedTimeout,
		FeedRefreshSchedule: os.Getenv("FEED_REFRESH_SCHEDULE"),

		GeocoderProvider:   sharedcfg.EnvOrDefault("GEOCODER_PROVIDER", GeocoderNominatim),
		GeocoderTimeout:    geocoderTimeout,
		GeocoderCacheSize:  cacheSize,
		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "quake-map-service"),
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),
		GoogleMapsAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),

		MapStyle:        sharedcfg.EnvOrDefault("MAP_STYLE", "satellite"),
		MapStylesFile:   os.Getenv("MAP_STYLES_FILE"),
		DefaultViewMode: sharedcfg.EnvOrDefault("VIEW_MODE", "standard"),

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "seismic-events"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FeedURL == "" {
		return errors.New("FEED_URL is required")
	}

	switch c.GeocoderProvider {
	case GeocoderNominatim:
		if c.NominatimURL == "" {
			return errors.New("NOMINATIM_URL is required for the nominatim geocoder")
		}
	case GeocoderMapbox:
		if c.MapboxToken == "" {
			return errors.New("GEOCODER_PROVIDER is mapbox but MAPBOX_TOKEN is not set")
		}
	case GeocoderGoogle:
		if c.GoogleMapsAPIKey == "" {
			return errors.New("GEOCODER_PROVIDER is google but GOOGLE_MAPS_API_KEY is not set")
		}
	default:
		return fmt.Errorf("invalid GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}

	if c.FeedRefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.FeedRefreshSchedule); err != nil {
			return fmt.Errorf("invalid FEED_REFRESH_SCHEDULE: %w", err)
		}
	}

	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
