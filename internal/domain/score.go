package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// SafetyLevel is the discrete go/no-go classification derived from the
// combined score. Ordered from worst to best.
type SafetyLevel int

const (
	LevelNoFly SafetyLevel = iota
	LevelDangerous
	LevelCaution
	LevelSafe
)

// Combined-score bands. Each level owns a half-open band except Safe,
// which includes 100; together they partition [0,100] exactly.
const (
	dangerousFloor = 30
	cautionFloor   = 60
	safeFloor      = 80
)

func (l SafetyLevel) String() string {
	switch l {
	case LevelNoFly:
		return "NO_FLY"
	case LevelDangerous:
		return "DANGEROUS"
	case LevelCaution:
		return "CAUTION"
	case LevelSafe:
		return "SAFE"
	default:
		return fmt.Sprintf("SafetyLevel(%d)", int(l))
	}
}

// MarshalJSON encodes the level as its string name for downstream consumers.
func (l SafetyLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a level from its string name.
func (l *SafetyLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "NO_FLY":
		*l = LevelNoFly
	case "DANGEROUS":
		*l = LevelDangerous
	case "CAUTION":
		*l = LevelCaution
	case "SAFE":
		*l = LevelSafe
	default:
		return fmt.Errorf("unknown safety level %q", s)
	}
	return nil
}

// LevelForScore maps a combined score to its safety band:
// [0,30) NO_FLY, [30,60) DANGEROUS, [60,80) CAUTION, [80,100] SAFE.
func LevelForScore(score int) SafetyLevel {
	switch {
	case score >= safeFloor:
		return LevelSafe
	case score >= cautionFloor:
		return LevelCaution
	case score >= dangerousFloor:
		return LevelDangerous
	default:
		return LevelNoFly
	}
}

// ScoreBreakdown carries the five factor sub-scores, the weighted
// combined score, and the derived safety level.
type ScoreBreakdown struct {
	Wind          float64     `json:"wind"`
	Visibility    float64     `json:"visibility"`
	Temperature   float64     `json:"temperature"`
	Precipitation float64     `json:"precipitation"`
	Cloud         float64     `json:"cloud"`
	Combined      int         `json:"combined"`
	Level         SafetyLevel `json:"level"`
}

// Score computes the full breakdown for one observation. Pure and
// deterministic: the same observation and thresholds always yield the
// same breakdown.
func Score(obs Observation, th Thresholds) ScoreBreakdown {
	da := DensityAltitude(obs.Pressure, obs.Temperature, obs.Elevation)

	b := ScoreBreakdown{
		Wind:          WindScore(obs.WindSpeed, obs.EffectiveGust(), th),
		Visibility:    VisibilityScore(obs.Visibility, th),
		Temperature:   TemperatureScore(obs.Temperature, da, th),
		Precipitation: PrecipitationScore(obs.PrecipRate, th),
		Cloud:         CloudScore(obs.CloudCover),
	}

	w := th.Weights
	combined := w.Wind*b.Wind +
		w.Visibility*b.Visibility +
		w.Temperature*b.Temperature +
		w.Precipitation*b.Precipitation +
		w.Cloud*b.Cloud

	b.Combined = int(clamp(math.Round(combined), 0, 100))
	b.Level = LevelForScore(b.Combined)
	return b
}

// Sub-score anchors at each tier boundary. Values between boundaries
// interpolate linearly so conditions just inside a tier never jump.
const (
	scoreAtSafe      = 100.0
	scoreAtCaution   = 70.0
	scoreAtDangerous = 30.0
)

// WindScore scores sustained wind, folding gust excess into the
// effective speed: a gust beyond speed*GustRatio raises the effective
// speed to gust/GustRatio, so larger gust spreads cost proportionally
// more. Monotonically non-increasing in both speed and gust.
func WindScore(speedKmh, gustKmh float64, th Thresholds) float64 {
	effective := speedKmh
	if g := gustKmh / th.GustRatio; g > effective {
		effective = g
	}
	return tierScoreAscending(effective, th.Wind, th.EscalationRatio)
}

// VisibilityScore scores horizontal visibility: distance below the safe
// tier degrades through caution and dangerous, reaching zero at
// dangerous divided by the escalation ratio.
func VisibilityScore(visibilityKm float64, th Thresholds) float64 {
	t := th.Visibility
	zeroAt := t.Dangerous / th.EscalationRatio
	switch {
	case visibilityKm >= t.Safe:
		return scoreAtSafe
	case visibilityKm >= t.Caution:
		return lerp(visibilityKm, t.Safe, t.Caution, scoreAtSafe, scoreAtCaution)
	case visibilityKm >= t.Dangerous:
		return lerp(visibilityKm, t.Caution, t.Dangerous, scoreAtCaution, scoreAtDangerous)
	case visibilityKm > zeroAt:
		return lerp(visibilityKm, t.Dangerous, zeroAt, scoreAtDangerous, 0)
	default:
		return 0
	}
}

// Temperature penalty slopes, points per °C outside the safe range.
// Cold falls off faster than heat: battery capacity collapses quickly
// below freezing while electronics tolerate moderate heat excess.
const (
	coldPenaltyPerDegree = 5.0
	heatPenaltyPerDegree = 3.0
)

// TemperatureScore is a two-sided penalty around the safe range, with a
// secondary penalty when density altitude exceeds the performance
// threshold.
func TemperatureScore(temperatureC, densityAltFt float64, th Thresholds) float64 {
	score := scoreAtSafe
	switch {
	case temperatureC < th.Temperature.MinSafe:
		score -= (th.Temperature.MinSafe - temperatureC) * coldPenaltyPerDegree
	case temperatureC > th.Temperature.MaxSafe:
		score -= (temperatureC - th.Temperature.MaxSafe) * heatPenaltyPerDegree
	}

	if densityAltFt > th.DensityAltitudeLimit {
		score -= (densityAltFt - th.DensityAltitudeLimit) / 100 * th.DensityAltitudePenalty
	}

	return clamp(score, 0, 100)
}

// PrecipitationScore inverts the rate through the tier ladder: any
// precipitation costs points, reaching zero at the dangerous rate.
func PrecipitationScore(rateMmh float64, th Thresholds) float64 {
	t := th.Precipitation
	switch {
	case rateMmh <= 0:
		return scoreAtSafe
	case rateMmh <= t.Safe:
		return lerp(rateMmh, 0, t.Safe, scoreAtSafe, scoreAtCaution)
	case rateMmh <= t.Caution:
		return lerp(rateMmh, t.Safe, t.Caution, scoreAtCaution, scoreAtDangerous)
	case rateMmh <= t.Dangerous:
		return lerp(rateMmh, t.Caution, t.Dangerous, scoreAtDangerous, 0)
	default:
		return 0
	}
}

// CloudScore maps cover percentage inversely onto the score: clear sky
// scores 100, full overcast 0.
func CloudScore(coverPct float64) float64 {
	return clamp(100-coverPct, 0, 100)
}

// tierScoreAscending maps a higher-is-worse value through the tier
// anchors, reaching zero at dangerous times the escalation ratio.
func tierScoreAscending(value float64, t Tier, escalation float64) float64 {
	zeroAt := t.Dangerous * escalation
	switch {
	case value <= t.Safe:
		return scoreAtSafe
	case value <= t.Caution:
		return lerp(value, t.Safe, t.Caution, scoreAtSafe, scoreAtCaution)
	case value <= t.Dangerous:
		return lerp(value, t.Caution, t.Dangerous, scoreAtCaution, scoreAtDangerous)
	case value < zeroAt:
		return lerp(value, t.Dangerous, zeroAt, scoreAtDangerous, 0)
	default:
		return 0
	}
}

// lerp linearly interpolates the score between two boundary anchors.
func lerp(value, fromValue, toValue, fromScore, toScore float64) float64 {
	frac := (value - fromValue) / (toValue - fromValue)
	return fromScore + frac*(toScore-fromScore)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
