package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	evalTime := time.Date(2026, time.March, 14, 12, 5, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(evalTime))
	defer SetClock(nil)

	th := DefaultThresholds()

	t.Run("calm observation", func(t *testing.T) {
		obs := calmObservation()
		a, err := Assess(obs, nil, th)
		require.NoError(t, err)

		assert.Equal(t, obs.Location, a.Location)
		assert.Equal(t, obs.Timestamp, a.ObservedAt)
		assert.Equal(t, evalTime, a.EvaluatedAt)
		assert.Equal(t, LevelSafe, a.Score.Level)
		assert.Empty(t, a.Alerts)
		assert.InDelta(t, 600, a.DensityAltitude, 50)
	})

	t.Run("invalid observation fails closed", func(t *testing.T) {
		obs := calmObservation()
		obs.Humidity = 250

		_, err := Assess(obs, nil, th)
		assert.ErrorIs(t, err, ErrInvalidObservation)
	})

	t.Run("alerts carried through", func(t *testing.T) {
		obs := calmObservation()
		obs.PrecipType = PrecipStorm

		a, err := Assess(obs, nil, th)
		require.NoError(t, err)
		require.NotEmpty(t, a.Alerts)
		assert.Equal(t, SeverityEmergency, a.Alerts[0].Severity)
	})
}

func TestSerializeAssessment(t *testing.T) {
	evalTime := time.Date(2026, time.March, 14, 12, 5, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(evalTime))
	defer SetClock(nil)

	a, err := Assess(calmObservation(), nil, DefaultThresholds())
	require.NoError(t, err)

	event, err := SerializeAssessment(a)
	require.NoError(t, err)

	assert.Equal(t, []byte("Austin"), event.Key)
	assert.Equal(t, "SAFE", event.Headers["safety_level"])
	assert.Equal(t, evalTime.Format(time.RFC3339), event.Headers["evaluated_at"])

	var decoded Assessment
	require.NoError(t, json.Unmarshal(event.Value, &decoded))
	assert.Equal(t, a.Score.Combined, decoded.Score.Combined)
	assert.Equal(t, a.Score.Level, decoded.Score.Level)
	assert.Equal(t, a.Location, decoded.Location)
}
