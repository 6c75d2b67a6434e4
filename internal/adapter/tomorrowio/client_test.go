package tomorrowio

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvane/flightwx/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", 2*time.Second, slog.Default())
	c.baseURL = srv.URL
	return c
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode", r.URL.Path)
		assert.Equal(t, "Austin", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-97.74,30.27]}}]}`))
	})

	coords, err := c.Geocode(context.Background(), "Austin")
	require.NoError(t, err)
	assert.InDelta(t, 30.27, coords.Lat, 0.001)
	assert.InDelta(t, -97.74, coords.Lon, 0.001)
}

func TestGeocode_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	})

	_, err := c.Geocode(context.Background(), "Nowhereville")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no results")
}

func TestRealtime_NormalizesUnits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather/realtime", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(`{
			"data": {
				"time": "2026-03-14T12:00:00Z",
				"values": {
					"temperature": 20,
					"humidity": 0.55,
					"pressureSurfaceLevel": 1013.25,
					"windSpeed": 5,
					"windGust": 8,
					"windDirection": 180,
					"visibility": 12000,
					"rainIntensity": 0.4,
					"snowIntensity": 0,
					"cloudCover": 0.4,
					"weatherCode": 4200
				}
			}
		}`))
	})

	obs, err := c.Realtime(context.Background(), "Austin", Coordinates{Lat: 30.27, Lon: -97.74})
	require.NoError(t, err)

	assert.Equal(t, "Austin", obs.Location)
	assert.Equal(t, time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC), obs.Timestamp)
	assert.InDelta(t, 18.0, obs.WindSpeed, 0.001)
	assert.InDelta(t, 28.8, obs.WindGust, 0.001)
	assert.InDelta(t, 55.0, obs.Humidity, 0.001)
	assert.InDelta(t, 12.0, obs.Visibility, 0.001)
	assert.InDelta(t, 40.0, obs.CloudCover, 0.001)
	assert.InDelta(t, 0.4, obs.PrecipRate, 0.001)
	assert.Equal(t, domain.PrecipRain, obs.PrecipType)
}

func TestRealtime_DropsGustBelowSustained(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"data": {
				"time": "2026-03-14T12:00:00Z",
				"values": {"temperature": 20, "windSpeed": 10, "windGust": 4, "visibility": 10000}
			}
		}`))
	})

	obs, err := c.Realtime(context.Background(), "Austin", Coordinates{})
	require.NoError(t, err)
	assert.Zero(t, obs.WindGust)
	assert.InDelta(t, 36.0, obs.EffectiveGust(), 0.001)
}

func TestRealtime_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := c.Realtime(context.Background(), "Austin", Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestForecast_UsesAvgFieldsAndLimitsDays(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather/forecast", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("timesteps"))
		w.Write([]byte(`{
			"timelines": {
				"daily": [
					{"time": "2026-03-15T06:00:00Z", "values": {"temperatureAvg": 18, "windSpeedAvg": 3, "humidityAvg": 0.6, "cloudCoverAvg": 0.2}},
					{"time": "2026-03-16T06:00:00Z", "values": {"temperatureAvg": 21, "windSpeedAvg": 6, "rainIntensityAvg": 1.2, "weatherCode": 4001}},
					{"time": "2026-03-17T06:00:00Z", "values": {"temperatureAvg": 19}}
				]
			}
		}`))
	})

	steps, err := c.Forecast(context.Background(), "Austin", Coordinates{}, 2)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, 18.0, steps[0].Temperature)
	assert.InDelta(t, 10.8, steps[0].WindSpeed, 0.001)
	assert.InDelta(t, 60.0, steps[0].Humidity, 0.001)
	// Visibility absent from daily timelines defaults to clear.
	assert.InDelta(t, 10.0, steps[0].Visibility, 0.001)
	assert.Equal(t, domain.PrecipRain, steps[1].PrecipType)
	assert.True(t, steps[1].Timestamp.After(steps[0].Timestamp))
}

func TestPrecipTypeForCode(t *testing.T) {
	tests := []struct {
		code     int
		rate     float64
		expected domain.PrecipType
	}{
		{1000, 0, domain.PrecipNone},
		{4001, 1.0, domain.PrecipRain},
		{5100, 0.5, domain.PrecipSnow},
		{6001, 0.5, domain.PrecipRain},
		{7000, 0.5, domain.PrecipSnow},
		{8000, 10, domain.PrecipStorm},
		{0, 0.3, domain.PrecipRain},
		{0, 0, domain.PrecipNone},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, precipTypeForCode(tc.code, tc.rate), "code %d rate %.1f", tc.code, tc.rate)
	}
}

// --- cache tests ---

type countingGeocoder struct {
	calls int
}

func (g *countingGeocoder) Geocode(_ context.Context, query string) (Coordinates, error) {
	g.calls++
	return Coordinates{Lat: float64(len(query))}, nil
}

func TestCachedGeocoder_HitsAndMisses(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10)

	first, err := cached.Geocode(context.Background(), "Austin")
	require.NoError(t, err)
	second, err := cached.Geocode(context.Background(), "Austin")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// Lookups are case-insensitive.
	_, err = cached.Geocode(context.Background(), "AUSTIN")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	_, err = cached.Geocode(context.Background(), "Dallas")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 2)
	ctx := context.Background()

	cached.Geocode(ctx, "a")
	cached.Geocode(ctx, "b")
	cached.Geocode(ctx, "a") // refresh "a"
	cached.Geocode(ctx, "c") // evicts "b"
	require.Equal(t, 3, inner.calls)

	cached.Geocode(ctx, "a")
	assert.Equal(t, 3, inner.calls, "a should still be cached")

	cached.Geocode(ctx, "b")
	assert.Equal(t, 4, inner.calls, "b should have been evicted")
}
