package analysis

import (
	"math"
	"sort"
)

// Bin is the hit count of one wheel number.
type Bin struct {
	Number int
	Count  int
}

// Histogram counts outcomes per wheel number. Every number in numbers gets a
// bin, in ascending order; outcomes not on the wheel are ignored.
func Histogram(numbers []int, outcomes []int) []Bin {
	idx := make(map[int]int, len(numbers))
	bins := make([]Bin, 0, len(numbers))

	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)
	for _, n := range sorted {
		if _, dup := idx[n]; dup {
			continue
		}
		idx[n] = len(bins)
		bins = append(bins, Bin{Number: n})
	}

	for _, o := range outcomes {
		if i, ok := idx[o]; ok {
			bins[i].Count++
		}
	}
	return bins
}

// ChiSquare is Pearson's statistic against a uniform distribution over the
// bins, with its degrees of freedom.
func ChiSquare(bins []Bin) (float64, int) {
	if len(bins) < 2 {
		return 0, 0
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total == 0 {
		return 0, len(bins) - 1
	}

	expected := float64(total) / float64(len(bins))
	chi2 := 0.0
	for _, b := range bins {
		d := float64(b.Count) - expected
		chi2 += d * d / expected
	}
	return chi2, len(bins) - 1
}

// ChiSquareCritical approximates the 95th percentile of the chi-square
// distribution with dof degrees of freedom (Wilson-Hilferty).
func ChiSquareCritical(dof int) float64 {
	if dof <= 0 {
		return 0
	}
	const z95 = 1.6448536269514722
	k := float64(dof)
	c := 2 / (9 * k)
	return k * math.Pow(1-c+z95*math.Sqrt(c), 3)
}

// Distinct returns how many bins were hit at least once.
func Distinct(bins []Bin) int {
	n := 0
	for _, b := range bins {
		if b.Count > 0 {
			n++
		}
	}
	return n
}
