package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or NaN for no values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Quantile returns the p-quantile of sorted by linear interpolation between
// the closest ranks: h = (n-1)p, the value at floor(h) plus the fractional
// part of the way to the next one.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Bands splits a continuous variable into equal-probability groups
type Bands struct {
	Edges  []float64
	Labels []string
}

// QuantileBands computes len(labels) quantile bands over values. Coinciding
// edges are merged and the surviving bands take labels from the front of the
// list, so heavily tied data yields fewer bands. Intervals are closed on the
// right; the first one also includes its lower edge.
func QuantileBands(values []float64, labels []string) Bands {
	if len(values) == 0 || len(labels) == 0 {
		return Bands{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q := len(labels)
	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		e := Quantile(sorted, float64(i)/float64(q))
		if len(edges) > 0 && e == edges[len(edges)-1] {
			continue
		}
		edges = append(edges, e)
	}

	// All values equal: a single band covering the one point
	if len(edges) == 1 {
		edges = append(edges, edges[0])
	}

	return Bands{
		Edges:  edges,
		Labels: append([]string(nil), labels[:len(edges)-1]...),
	}
}

// Band returns the index of the band holding v, or -1 when v lies outside
// the edges
func (b Bands) Band(v float64) int {
	if len(b.Edges) < 2 || v < b.Edges[0] || v > b.Edges[len(b.Edges)-1] {
		return -1
	}
	// first upper edge >= v
	return sort.SearchFloat64s(b.Edges[1:], v)
}
