// Package domain implements the flight-safety scoring and alert engine
// for drone and small-aircraft operations.
//
// # Scoring model
//
// Five independent factor scorers each map one weather dimension to a
// 0-100 sub-score through piecewise-linear interpolation across the
// configured safe/caution/dangerous tiers, anchored at 100/70/30 with
// zero reached at an escalation bound (1.5x dangerous for wind and
// precipitation, dangerous/1.5 for visibility). Interpolation keeps a
// value just inside a tier boundary from jumping discontinuously.
//
// The combined score is the weighted sum
//
//	wind 0.30 | visibility 0.25 | temperature 0.15 | precipitation 0.20 | cloud 0.10
//
// rounded to the nearest integer and clamped to [0,100], then mapped to
// a safety level through fixed non-overlapping bands:
//
//	[0,30)  NO_FLY | [30,60) DANGEROUS | [60,80) CAUTION | [80,100] SAFE
//
// # Wind gusts
//
// A reported gust beyond speed x gust-ratio raises the effective wind
// speed used for scoring; an absent gust is treated as equal to the
// sustained speed, never as calm. Alerts judge the raw maximum of
// sustained and gust.
//
// # Density altitude
//
// Pressure altitude from the 29.92 inHg standard plus the 120 ft/°C
// temperature correction against the ISA expectation at the site
// elevation. Feeds the temperature scorer's secondary penalty above the
// configured performance threshold and is reported on every assessment.
// See [DensityAltitude].
//
// # Alerts
//
// Alert evaluation is independent of scoring. Crossing a dangerous tier
// emits a Warning, escalating to Critical at the escalation bound (a
// fixed °C margin for temperature). Storm precipitation always emits an
// Emergency severe-weather alert. The pressure-trend rule needs at least
// two chronological points for the same location and otherwise skips
// silently. One alert per category per pass, highest severity wins;
// results are ordered by severity descending.
//
// # Purity
//
// Everything here is synchronous and side-effect free: no I/O, no
// shared mutable state beyond the read-only Thresholds value, so every
// entry point is safe to call concurrently. The only process state is
// the injectable clock used to stamp assessments.
package domain
