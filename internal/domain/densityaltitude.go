package domain

const (
	standardPressureInHg = 29.92
	hPaToInHg            = 0.02953
	metersToFeet         = 3.28084

	// ISA sea-level temperature and lapse rate approximation used by the
	// standard density-altitude rule of thumb: DA = PA + 120 × (OAT − ISA).
	isaSeaLevelTempC = 15.0
	isaLapsePerFoot  = 0.00198
	feetPerDegreeC   = 120.0
)

// DensityAltitude estimates the altitude in feet at which the standard
// atmosphere would match the observed air density. Pressure altitude is
// derived from the deviation off the 29.92 inHg standard at the site
// elevation, then corrected for temperature deviation from the ISA
// expectation at that altitude. Higher values mean thinner air and
// degraded rotor and battery performance.
func DensityAltitude(pressureHPa, temperatureC, elevationM float64) float64 {
	pressureInHg := pressureHPa * hPaToInHg
	pressureAltFt := elevationM*metersToFeet + (standardPressureInHg-pressureInHg)*1000

	isaTempC := isaSeaLevelTempC - pressureAltFt*isaLapsePerFoot
	return pressureAltFt + feetPerDegreeC*(temperatureC-isaTempC)
}
