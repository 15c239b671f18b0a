package analysis

import "math"

// DistanceStats summarizes a per-point distance field
type DistanceStats struct {
	Count     int
	Min       float64
	Max       float64
	Mean      float64
	AbsMean   float64
	RMS       float64
	Hausdorff float64 // largest absolute distance
}

// DistanceStatistics computes the statistics of a distance field
func DistanceStatistics(values []float64) DistanceStats {
	stats := DistanceStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	stats.Min = math.Inf(1)
	stats.Max = math.Inf(-1)
	var sum, absSum, sqSum float64
	for _, v := range values {
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
		sum += v
		absSum += math.Abs(v)
		sqSum += v * v
		stats.Hausdorff = math.Max(stats.Hausdorff, math.Abs(v))
	}

	n := float64(len(values))
	stats.Mean = sum / n
	stats.AbsMean = absSum / n
	stats.RMS = math.Sqrt(sqSum / n)
	return stats
}
