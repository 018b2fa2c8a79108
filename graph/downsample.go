// Package graph holds the chart data engines: largest-triangle-three-buckets
// downsampling, series preparation, y-axis range calculation and the
// annotation overlays. Everything in here is pure and deterministic.
package graph

import (
	"math"

	"github.com/hkfrei/wiski-html/models"
)

// epoch coerces a point's timestamp to a comparable number for the
// triangle area arithmetic.
func epoch(p models.ChartPoint) float64 {
	return float64(p.X.UnixMilli())
}

// Downsample reduces points to threshold visually representative points
// using the largest-triangle-three-buckets algorithm. The first and last
// point are always kept and the output preserves chronological order.
// A threshold of zero or below, or one at or above the input length,
// returns the input unchanged.
func Downsample(points []models.ChartPoint, threshold int) []models.ChartPoint {
	n := len(points)
	if threshold <= 0 || threshold >= n {
		return points
	}
	if threshold <= 2 {
		return []models.ChartPoint{points[0], points[n-1]}
	}

	sampled := make([]models.ChartPoint, 0, threshold)
	sampled = append(sampled, points[0])

	// bucket size, leaving room for the fixed start and end points
	every := float64(n-2) / float64(threshold-2)
	a := 0

	for i := 0; i < threshold-2; i++ {
		// average x and y of the next bucket
		avgRangeStart := int(math.Floor(float64(i+1)*every)) + 1
		avgRangeEnd := int(math.Floor(float64(i+2)*every)) + 1
		if avgRangeEnd > n {
			avgRangeEnd = n
		}
		avgRangeLength := float64(avgRangeEnd - avgRangeStart)
		var avgX, avgY float64
		for j := avgRangeStart; j < avgRangeEnd; j++ {
			avgX += epoch(points[j])
			avgY += points[j].Y
		}
		avgX /= avgRangeLength
		avgY /= avgRangeLength

		// range of the current bucket
		rangeOffs := int(math.Floor(float64(i)*every)) + 1
		rangeTo := int(math.Floor(float64(i+1)*every)) + 1

		pointAX := epoch(points[a])
		pointAY := points[a].Y

		maxArea := -1.0
		nextA := rangeOffs
		for j := rangeOffs; j < rangeTo; j++ {
			area := math.Abs((pointAX-avgX)*(points[j].Y-pointAY)-
				(pointAX-epoch(points[j]))*(avgY-pointAY)) * 0.5
			if area > maxArea {
				maxArea = area
				nextA = j
			}
		}

		sampled = append(sampled, points[nextA])
		a = nextA
	}

	sampled = append(sampled, points[n-1])
	return sampled
}
