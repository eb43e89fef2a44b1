package engine

import "math"

// DeviationPct is the signed percentage difference between an observed value
// and its baseline, rounded to 2 decimal places. A zero or missing baseline
// yields 0 rather than a division by zero.
func DeviationPct(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return round2((current - baseline) / baseline * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
