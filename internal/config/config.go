package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/skyvane/flightwx/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// HistoryDepth is how many past observations per location are kept
	// for pressure-trend evaluation.
	HistoryDepth int

	// Tomorrow.io weather source configuration, used by the wxcheck CLI.
	TomorrowToken    string
	TomorrowEnabled  bool
	TomorrowTimeout  time.Duration
	GeocodeCacheSize int

	// Scoring and alerting limits, defaults plus any per-limit overrides.
	Thresholds domain.Thresholds
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	tomorrowTimeout, err := parseDuration("TOMORROW_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseIntInRange("BATCH_SIZE", 50, 1, 1000)
	if err != nil {
		return nil, err
	}
	historyDepth, err := parseIntInRange("HISTORY_DEPTH", 24, 2, 1000)
	if err != nil {
		return nil, err
	}
	geocodeCacheSize, err := parseIntInRange("GEOCODE_CACHE_SIZE", 1000, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	thresholds, err := loadThresholds()
	if err != nil {
		return nil, err
	}

	tomorrowToken := os.Getenv("TOMORROW_TOKEN")
	tomorrowEnabled := tomorrowToken != ""
	if v := os.Getenv("TOMORROW_ENABLED"); v != "" {
		tomorrowEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "raw-observations"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "flight-assessments"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "flightwx-engine"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		HistoryDepth:       historyDepth,

		TomorrowToken:    tomorrowToken,
		TomorrowEnabled:  tomorrowEnabled,
		TomorrowTimeout:  tomorrowTimeout,
		GeocodeCacheSize: geocodeCacheSize,

		Thresholds: thresholds,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.TomorrowEnabled && cfg.TomorrowToken == "" {
		return nil, errors.New("TOMORROW_ENABLED is true but TOMORROW_TOKEN is not set")
	}

	return cfg, nil
}

// loadThresholds starts from the built-in defaults and applies any
// per-limit environment overrides, then validates the result as a whole
// so a bad override fails startup rather than mis-scoring silently.
func loadThresholds() (domain.Thresholds, error) {
	th := domain.DefaultThresholds()

	overrides := []struct {
		key string
		dst *float64
	}{
		{"WIND_LIMIT_SAFE", &th.Wind.Safe},
		{"WIND_LIMIT_CAUTION", &th.Wind.Caution},
		{"WIND_LIMIT_DANGEROUS", &th.Wind.Dangerous},
		{"VISIBILITY_LIMIT_SAFE", &th.Visibility.Safe},
		{"VISIBILITY_LIMIT_CAUTION", &th.Visibility.Caution},
		{"VISIBILITY_LIMIT_DANGEROUS", &th.Visibility.Dangerous},
		{"TEMP_MIN_SAFE", &th.Temperature.MinSafe},
		{"TEMP_MAX_SAFE", &th.Temperature.MaxSafe},
		{"PRECIP_LIMIT_SAFE", &th.Precipitation.Safe},
		{"PRECIP_LIMIT_CAUTION", &th.Precipitation.Caution},
		{"PRECIP_LIMIT_DANGEROUS", &th.Precipitation.Dangerous},
		{"PRESSURE_RATE_WARNING", &th.PressureRates.Warning},
		{"PRESSURE_RATE_CRITICAL", &th.PressureRates.Critical},
		{"WEIGHT_WIND", &th.Weights.Wind},
		{"WEIGHT_VISIBILITY", &th.Weights.Visibility},
		{"WEIGHT_TEMPERATURE", &th.Weights.Temperature},
		{"WEIGHT_PRECIPITATION", &th.Weights.Precipitation},
		{"WEIGHT_CLOUD", &th.Weights.Cloud},
		{"DENSITY_ALTITUDE_LIMIT", &th.DensityAltitudeLimit},
	}
	for _, o := range overrides {
		if err := overrideFloat(o.key, o.dst); err != nil {
			return domain.Thresholds{}, err
		}
	}

	if err := th.Validate(); err != nil {
		return domain.Thresholds{}, fmt.Errorf("threshold overrides: %w", err)
	}
	return th, nil
}
