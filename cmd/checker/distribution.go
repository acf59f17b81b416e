package checker

import "math"

const (
	// DefaultBins is the histogram bin count for numeric value pools
	DefaultBins = 100
	// boolBins spans [0, 2) so false and true each get one bin
	boolBins = 2
)

// histogram is a fixed-width binning over [min, max). Values equal to max
// land in the last bin so the whole population is represented.
type histogram struct {
	counts []uint64
	min    float64
	width  float64
	n      uint64
}

func newHistogram(min, max float64, bins int) *histogram {
	if bins < 1 {
		bins = 1
	}
	width := (max - min) / float64(bins)
	if width == 0 {
		width = 1
	}
	return &histogram{
		counts: make([]uint64, bins),
		min:    min,
		width:  width,
	}
}

func (h *histogram) fill(v float64) {
	idx := int((v - h.min) / h.width)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(h.counts) {
		idx = len(h.counts) - 1
	}
	h.counts[idx]++
	h.n++
}

// stats derives count, mean, and population standard deviation from the
// bin contents, using each bin's center as its value
func (h *histogram) stats() DistributionSummary {
	if h.n == 0 {
		return DistributionSummary{}
	}

	var sum, sumSq float64
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		center := h.min + (float64(i)+0.5)*h.width
		sum += float64(c) * center
		sumSq += float64(c) * center * center
	}

	mean := sum / float64(h.n)
	variance := sumSq/float64(h.n) - mean*mean
	if variance < 0 {
		variance = 0
	}

	return DistributionSummary{
		Count:  h.n,
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}
}

// poolRange returns the histogram range for a value pool. Bool pools use
// the fixed [0, 2) range regardless of content.
func poolRange(values []float64, elem LogicalType) (float64, float64, int) {
	if elem == TypeBool {
		return 0, 2, boolBins
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, DefaultBins
}

// Summarize bins a value pool and derives statistics from the bins. An
// empty pool yields the zero summary.
func Summarize(values []float64, elem LogicalType) DistributionSummary {
	if len(values) == 0 {
		return DistributionSummary{}
	}

	min, max, bins := poolRange(values, elem)
	h := newHistogram(min, max, bins)
	for _, v := range values {
		h.fill(v)
	}
	return h.stats()
}

// ChiSquare bins both pools over their joint range and sums the per-bin
// statistic. Identical pools yield exactly zero. Returns false when either
// pool is empty, since there is nothing to compare against.
func ChiSquare(a, b []float64, elem LogicalType) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}

	joint := make([]float64, 0, len(a)+len(b))
	joint = append(joint, a...)
	joint = append(joint, b...)
	min, max, bins := poolRange(joint, elem)

	ha := newHistogram(min, max, bins)
	for _, v := range a {
		ha.fill(v)
	}
	hb := newHistogram(min, max, bins)
	for _, v := range b {
		hb.fill(v)
	}

	var chi2 float64
	for i := range ha.counts {
		ca := float64(ha.counts[i])
		cb := float64(hb.counts[i])
		if ca+cb == 0 {
			continue
		}
		diff := ca - cb
		chi2 += diff * diff / (ca + cb)
	}
	return chi2, true
}
