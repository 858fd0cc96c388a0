package pricing

import "math"

// epsilon below which a summed float is treated as zero
const tolerance = 1e-9

// Round2 rounds to 2 decimal places using round-half-up. Every monetary
// value leaving this package goes through it.
func Round2(v float64) float64 {
	if math.Abs(v) < tolerance {
		return 0
	}
	return math.Floor(v*100+0.5) / 100
}
