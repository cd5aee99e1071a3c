package cloud

// Histogram is a fixed-bin frequency table over a slice of scalar values.
// Bins are half-open intervals [edge[i], edge[i+1]) partitioning the observed
// value range; the last bin is closed on the right so the maximum value is
// counted. Built fresh per analysis, never persisted.
type Histogram struct {
	Counts []int
	Edges  []float64 // len(Counts)+1 monotonically increasing edges
}

// NewHistogram bins values into binCount equal-width bins spanning
// [min(values), max(values)]. A collapsed range (all values equal, or a
// single value) yields one bin holding every value so callers never divide
// by a zero-width bin. An empty input yields empty counts.
func NewHistogram(values []float64, binCount int) Histogram {
	if len(values) == 0 || binCount < 1 {
		return Histogram{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		// Degenerate range: everything lands in a single bin.
		return Histogram{
			Counts: []int{len(values)},
			Edges:  []float64{lo, hi},
		}
	}

	counts := make([]int, binCount)
	edges := make([]float64, binCount+1)
	width := (hi - lo) / float64(binCount)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[binCount] = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= binCount {
			idx = binCount - 1
		}
		counts[idx]++
	}

	return Histogram{Counts: counts, Edges: edges}
}

// MaxCount returns the height of the tallest bin.
func (h Histogram) MaxCount() int {
	max := 0
	for _, c := range h.Counts {
		if c > max {
			max = c
		}
	}
	return max
}

// NonEmptyBins returns the number of bins with at least one value.
func (h Histogram) NonEmptyBins() int {
	n := 0
	for _, c := range h.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// BinCenters returns the midpoint of each bin, matched to Counts by index.
func (h Histogram) BinCenters() []float64 {
	if len(h.Counts) == 0 {
		return nil
	}
	centers := make([]float64, len(h.Counts))
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}
