package tomorrowio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/skyvane/flightwx/internal/domain"
)

// Client fetches weather observations and forecasts from the Tomorrow.io
// v4 API and normalizes them into domain observations. Transient HTTP
// failures are retried with backoff.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Coordinates is a geocoded lat/lon pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// NewClient creates a Tomorrow.io client with retrying transport.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil

	return &Client{
		apiKey:     apiKey,
		httpClient: rc.StandardClient(),
		baseURL:    "https://api.tomorrow.io/v4",
		logger:     logger,
	}
}

// Geocode resolves a place name to coordinates using Tomorrow.io's
// geocoding endpoint.
func (c *Client) Geocode(ctx context.Context, query string) (Coordinates, error) {
	params := url.Values{
		"query":  {query},
		"apikey": {c.apiKey},
	}

	var resp geocodeResponse
	if err := c.get(ctx, c.baseURL+"/geocode?"+params.Encode(), &resp); err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return Coordinates{}, fmt.Errorf("geocode %q: no results", query)
	}

	// GeoJSON order is lon,lat.
	coords := resp.Features[0].Geometry.Coordinates
	return Coordinates{Lat: coords[1], Lon: coords[0]}, nil
}

// Realtime fetches current conditions for a location and returns them as
// a validated observation.
func (c *Client) Realtime(ctx context.Context, location string, coords Coordinates) (domain.Observation, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", coords.Lat, coords.Lon)},
		"apikey":   {c.apiKey},
		"units":    {"metric"},
	}

	var resp realtimeResponse
	if err := c.get(ctx, c.baseURL+"/weather/realtime?"+params.Encode(), &resp); err != nil {
		return domain.Observation{}, fmt.Errorf("realtime weather for %q: %w", location, err)
	}

	obs := normalizeValues(resp.Data.Values, location, resp.Data.Time)
	if err := obs.Validate(); err != nil {
		return domain.Observation{}, fmt.Errorf("realtime weather for %q: %w", location, err)
	}
	return obs, nil
}

// Forecast fetches the daily forecast for a location, up to days steps,
// as a chronological observation sequence ready for trend analysis.
func (c *Client) Forecast(ctx context.Context, location string, coords Coordinates, days int) ([]domain.Observation, error) {
	params := url.Values{
		"location":  {fmt.Sprintf("%f,%f", coords.Lat, coords.Lon)},
		"apikey":    {c.apiKey},
		"units":     {"metric"},
		"timesteps": {"1d"},
	}

	var resp forecastResponse
	if err := c.get(ctx, c.baseURL+"/weather/forecast?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", location, err)
	}

	daily := resp.Timelines.Daily
	if len(daily) > days {
		daily = daily[:days]
	}

	steps := make([]domain.Observation, 0, len(daily))
	for i, day := range daily {
		obs := normalizeValues(day.Values, location, day.Time)
		if err := obs.Validate(); err != nil {
			return nil, fmt.Errorf("forecast step %d for %q: %w", i, location, err)
		}
		steps = append(steps, obs)
	}
	return steps, nil
}

func (c *Client) get(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tomorrow.io API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// normalizeValues converts Tomorrow.io field conventions to domain units:
// wind in m/s becomes km/h, humidity and cloud cover fractions become
// percentages, visibility in meters becomes kilometers.
func normalizeValues(v values, location string, t time.Time) domain.Observation {
	precipRate := v.RainIntensity + v.SnowIntensity

	pressure := v.PressureSurfaceLevel
	if pressure == 0 {
		pressure = 1013.25
	}

	// A gust below the sustained speed is noise; report it as absent so
	// the sustained speed stands in.
	gust := v.WindGust * 3.6
	if gust < v.WindSpeed*3.6 {
		gust = 0
	}

	return domain.Observation{
		Timestamp:     t,
		Location:      location,
		Temperature:   v.Temperature,
		Humidity:      clampPct(v.Humidity * 100),
		Pressure:      pressure,
		WindSpeed:     v.WindSpeed * 3.6,
		WindGust:      gust,
		WindDirection: v.WindDirection,
		Visibility:    v.Visibility / 1000,
		PrecipRate:    precipRate,
		PrecipType:    precipTypeForCode(v.WeatherCode, precipRate),
		CloudCover:    clampPct(v.CloudCover * 100),
	}
}

// precipTypeForCode maps Tomorrow.io weather codes onto the domain's
// precipitation classes: 8000 is thunderstorm, 5xxx snow, 6xxx freezing
// rain, 7xxx ice pellets, 4xxx rain.
func precipTypeForCode(code int, rate float64) domain.PrecipType {
	switch {
	case code == 8000:
		return domain.PrecipStorm
	case code >= 5000 && code < 6000:
		return domain.PrecipSnow
	case code >= 7000 && code < 8000:
		return domain.PrecipSnow
	case code >= 4000 && code < 5000:
		return domain.PrecipRain
	case code >= 6000 && code < 7000:
		return domain.PrecipRain
	case rate > 0:
		return domain.PrecipRain
	default:
		return domain.PrecipNone
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Tomorrow.io API response types.

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}

type realtimeResponse struct {
	Data struct {
		Time   time.Time `json:"time"`
		Values values    `json:"values"`
	} `json:"data"`
}

type forecastResponse struct {
	Timelines struct {
		Daily []struct {
			Time   time.Time `json:"time"`
			Values values    `json:"values"`
		} `json:"daily"`
	} `json:"timelines"`
}

type values struct {
	Temperature          float64 `json:"temperature"`
	Humidity             float64 `json:"humidity"`
	PressureSurfaceLevel float64 `json:"pressureSurfaceLevel"`
	WindSpeed            float64 `json:"windSpeed"`
	WindGust             float64 `json:"windGust"`
	WindDirection        float64 `json:"windDirection"`
	Visibility           float64 `json:"visibility"`
	RainIntensity        float64 `json:"rainIntensity"`
	SnowIntensity        float64 `json:"snowIntensity"`
	CloudCover           float64 `json:"cloudCover"`
	WeatherCode          int     `json:"weatherCode"`
}

// UnmarshalJSON also accepts the *Avg-suffixed field names used by the
// daily forecast timeline.
func (v *values) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	getFloat := func(name string, fallback float64) float64 {
		raw, ok := m[name]
		if !ok {
			raw, ok = m[name+"Avg"]
		}
		if !ok {
			return fallback
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return fallback
		}
		return f
	}

	v.Temperature = getFloat("temperature", 0)
	v.Humidity = getFloat("humidity", 0)
	v.PressureSurfaceLevel = getFloat("pressureSurfaceLevel", 0)
	v.WindSpeed = getFloat("windSpeed", 0)
	v.WindGust = getFloat("windGust", 0)
	v.WindDirection = getFloat("windDirection", 0)
	// Visibility is frequently absent from daily timelines; assume clear.
	v.Visibility = getFloat("visibility", 10_000)
	v.RainIntensity = getFloat("rainIntensity", 0)
	v.SnowIntensity = getFloat("snowIntensity", 0)
	v.CloudCover = getFloat("cloudCover", 0)
	v.WeatherCode = int(getFloat("weatherCode", 0))
	return nil
}
