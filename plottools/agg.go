package plottools

import (
	"math"
	"sort"
)

// Stats is the fixed summary of one plot's valid TGI values.
type Stats struct {
	Mean     float64
	Median   float64
	Q1       float64
	Q3       float64
	Variance float64
	StdDev   float64
}

// Reduce drops NaN values from g and summarises the rest. It also returns the
// number of values that survived.
func Reduce(g Grid) (Stats, int, error) {
	values := g.Valid()
	if len(values) == 0 {
		return Stats{}, 0, ErrEmptyInput
	}
	sort.Float64s(values)

	variance := Variance(values...)
	return Stats{
		Mean:     Mean(values...),
		Median:   percentileSorted(values, 50),
		Q1:       percentileSorted(values, 25),
		Q3:       percentileSorted(values, 75),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}, len(values), nil
}

func Mean(inData ...float64) float64 {
	sum := Sum(inData...)
	return sum / float64(len(inData))
}

func Sum(inData ...float64) float64 {
	var sum float64
	for _, val := range inData {
		sum += val
	}
	return sum
}

// Variance is the population variance (divides by n).
func Variance(inData ...float64) float64 {
	mean := Mean(inData...)
	var sq float64
	for _, val := range inData {
		d := val - mean
		sq += d * d
	}
	return sq / float64(len(inData))
}

// Percentile interpolates linearly between the closest order statistics.
// p is in [0, 100]. inData is not modified.
func Percentile(p float64, inData ...float64) float64 {
	sorted := make([]float64, len(inData))
	copy(sorted, inData)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
