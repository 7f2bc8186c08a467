package detect

import "math"

// Normalize converts a raw provider score on the given scale into [0,1].
func Normalize(raw float64, scale Scale) float64 {
	if math.IsNaN(raw) {
		return 0
	}

	switch scale {
	case ScalePercent:
		raw /= 100
	case ScaleAmbiguous:
		if raw > 1 {
			raw /= 100
		}
	}

	return clamp(raw)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Verdict is a coarse band over the normalized score.
type Verdict string

const (
	VerdictHuman Verdict = "Likely Human-Written"
	VerdictMixed Verdict = "Mixed / Uncertain"
	VerdictAI    Verdict = "Likely AI-Generated"
)

// VerdictFor maps a normalized score to its band. Bands are taken over the
// rounded percentage so the verdict always agrees with the displayed number.
func VerdictFor(score float64) Verdict {
	pct := Percent(score)
	switch {
	case pct >= 70:
		return VerdictAI
	case pct >= 40:
		return VerdictMixed
	default:
		return VerdictHuman
	}
}

// Percent rounds a normalized score to a whole percentage.
func Percent(score float64) int {
	return int(math.Round(clamp(score) * 100))
}
