// internal/results/stats.go
package results

import (
	"fmt"
	"math"
	"sort"
)

// RunningStat is an online accumulator for a stream of float64 samples. Mean
// and variance use Welford's algorithm so long measurement runs stay
// numerically stable.
type RunningStat struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	M2    float64 `json:"m2"`
}

// Update folds one sample into the running statistic.
func (rs *RunningStat) Update(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// Stddev returns the population standard deviation of the samples seen so far.
func (rs *RunningStat) Stddev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count))
}

// Summarize reduces per-pass timings to the Timing a result row reports. The
// representative statistic is the median; mean, min, max, and stddev ride
// along for the detailed report.
func Summarize(samples []float64) Timing {
	if len(samples) == 0 {
		return Timing{}
	}

	var rs RunningStat
	for _, s := range samples {
		rs.Update(s)
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}

	return Timing{
		MedianSeconds: median,
		MeanSeconds:   rs.Mean,
		MinSeconds:    rs.Min,
		MaxSeconds:    rs.Max,
		StddevSeconds: rs.Stddev(),
		Iterations:    rs.Count,
	}
}

// FormatSeconds renders a wall-clock duration in the unit that keeps the
// value readable: seconds, milliseconds, or microseconds.
func FormatSeconds(s float64) string {
	switch {
	case s >= 1:
		return fmt.Sprintf("%.3fs", s)
	case s >= 1e-3:
		return fmt.Sprintf("%.3fms", s*1e3)
	case s > 0:
		return fmt.Sprintf("%.1fµs", s*1e6)
	default:
		return "0s"
	}
}
