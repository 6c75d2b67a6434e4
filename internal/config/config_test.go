package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvane/flightwx/internal/domain"
)

const (
	defaultBroker     = "localhost:9092"
	testTomorrowToken = "tk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-observations", cfg.KafkaSourceTopic)
	assert.Equal(t, "flight-assessments", cfg.KafkaSinkTopic)
	assert.Equal(t, "flightwx-engine", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, 24, cfg.HistoryDepth)
	assert.False(t, cfg.TomorrowEnabled)
	assert.Empty(t, cfg.TomorrowToken)
	assert.Equal(t, 5*time.Second, cfg.TomorrowTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, domain.DefaultThresholds(), cfg.Thresholds)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("HISTORY_DEPTH", "48")
	t.Setenv("TOMORROW_TOKEN", testTomorrowToken)
	t.Setenv("TOMORROW_TIMEOUT", "10s")
	t.Setenv("GEOCODE_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, 48, cfg.HistoryDepth)
	assert.True(t, cfg.TomorrowEnabled)
	assert.Equal(t, testTomorrowToken, cfg.TomorrowToken)
	assert.Equal(t, 10*time.Second, cfg.TomorrowTimeout)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
}

func TestLoad_ThresholdOverrides(t *testing.T) {
	t.Setenv("WIND_LIMIT_SAFE", "12")
	t.Setenv("WIND_LIMIT_CAUTION", "20")
	t.Setenv("WIND_LIMIT_DANGEROUS", "30")
	t.Setenv("TEMP_MIN_SAFE", "-5")
	t.Setenv("PRESSURE_RATE_WARNING", "1.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, domain.Tier{Safe: 12, Caution: 20, Dangerous: 30}, cfg.Thresholds.Wind)
	assert.Equal(t, -5.0, cfg.Thresholds.Temperature.MinSafe)
	assert.Equal(t, 1.0, cfg.Thresholds.PressureRates.Warning)
	// Untouched limits keep their defaults.
	assert.Equal(t, domain.DefaultThresholds().Visibility, cfg.Thresholds.Visibility)
}

func TestLoad_WeightOverridesMustStillSumToOne(t *testing.T) {
	t.Setenv("WEIGHT_WIND", "0.50")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoad_RebalancedWeightsAccepted(t *testing.T) {
	t.Setenv("WEIGHT_WIND", "0.40")
	t.Setenv("WEIGHT_CLOUD", "0.10")
	t.Setenv("WEIGHT_VISIBILITY", "0.15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.40, cfg.Thresholds.Weights.Wind)
}

func TestLoad_NonNumericThresholdOverride(t *testing.T) {
	t.Setenv("WIND_LIMIT_SAFE", "breezy")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WIND_LIMIT_SAFE")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_HistoryDepthTooSmall(t *testing.T) {
	t.Setenv("HISTORY_DEPTH", "1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_DEPTH")
}

func TestLoad_InvalidTomorrowTimeout(t *testing.T) {
	t.Setenv("TOMORROW_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOMORROW_TIMEOUT")
}

func TestLoad_TomorrowEnabledWithoutToken(t *testing.T) {
	t.Setenv("TOMORROW_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOMORROW_TOKEN")
}

func TestLoad_TomorrowTokenImpliesEnabled(t *testing.T) {
	t.Setenv("TOMORROW_TOKEN", testTomorrowToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.TomorrowEnabled)
}

func TestLoad_TomorrowExplicitlyDisabled(t *testing.T) {
	t.Setenv("TOMORROW_TOKEN", testTomorrowToken)
	t.Setenv("TOMORROW_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.TomorrowEnabled)
}
