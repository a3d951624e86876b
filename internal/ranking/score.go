package ranking

import "math"

// MaxScore is the top of the canonical relevance range shared by every strategy.
const MaxScore = 100.0

// Clamp maps s into [0, MaxScore]. NaN and infinities become 0.
func Clamp(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return math.Min(math.Max(s, 0), MaxScore)
}

func round2(s float64) float64 {
	return math.Round(s*100) / 100
}
