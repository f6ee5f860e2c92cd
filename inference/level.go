package inference

// Addiction levels in ascending severity.
const (
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelHigh     = "High"
	LevelVeryHigh = "Very High"
)

// Level classifies a score into its addiction band. Boundaries are
// inclusive on the lower band: a score of exactly 3 is still Low.
func Level(score float64) string {
	switch {
	case score <= 3:
		return LevelLow
	case score <= 6:
		return LevelModerate
	case score <= 8:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}
