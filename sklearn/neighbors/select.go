package neighbors

import "sort"

// neighbourOrder orders reference indices by distance, then by index.
// The index tie-break makes the order total, so selection never depends on
// pivot choice.
type neighbourOrder struct {
	dist []float64
}

func (o neighbourOrder) less(a, b int) bool {
	if o.dist[a] != o.dist[b] {
		return o.dist[a] < o.dist[b]
	}
	return a < b
}

// selectNearest fills idx with 0..len(dist)-1 and rearranges it so that
// idx[:k] holds the k nearest reference rows, in no particular order.
// idx must have len(dist) elements and 1 <= k <= len(dist).
func selectNearest(dist []float64, idx []int, k int) []int {
	for i := range idx {
		idx[i] = i
	}
	o := neighbourOrder{dist: dist}

	lo, hi := 0, len(idx)-1
	for lo < hi {
		p := o.partition(idx, lo, hi)
		switch {
		case p == k-1:
			return idx[:k]
		case p < k-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
	return idx[:k]
}

// partition is a Lomuto partition around the median of idx[lo], idx[mid]
// and idx[hi]. It returns the final position of the pivot.
func (o neighbourOrder) partition(idx []int, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if o.less(idx[mid], idx[lo]) {
		idx[mid], idx[lo] = idx[lo], idx[mid]
	}
	if o.less(idx[hi], idx[lo]) {
		idx[hi], idx[lo] = idx[lo], idx[hi]
	}
	if o.less(idx[hi], idx[mid]) {
		idx[hi], idx[mid] = idx[mid], idx[hi]
	}
	idx[mid], idx[hi] = idx[hi], idx[mid]

	pivot := idx[hi]
	i := lo
	for j := lo; j < hi; j++ {
		if o.less(idx[j], pivot) {
			idx[i], idx[j] = idx[j], idx[i]
			i++
		}
	}
	idx[i], idx[hi] = idx[hi], idx[i]
	return i
}

// sortNearest orders selected indices nearest first.
func sortNearest(dist []float64, selected []int) {
	o := neighbourOrder{dist: dist}
	sort.Slice(selected, func(a, b int) bool { return o.less(selected[a], selected[b]) })
}

// nearestOf returns the nearest index among selected.
func nearestOf(dist []float64, selected []int) int {
	o := neighbourOrder{dist: dist}
	best := selected[0]
	for _, j := range selected[1:] {
		if o.less(j, best) {
			best = j
		}
	}
	return best
}
