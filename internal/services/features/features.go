package features

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Slope fits a least-squares line to xs over index positions 0..n-1 and
// returns its slope. NaN values are skipped; fewer than two defined points
// yield 0.
func Slope(xs []float64) float64 {
	var n, sumX, sumY, sumXY, sumXX float64
	for i, y := range xs {
		if math.IsNaN(y) {
			continue
		}
		x := float64(i)
		n++
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	if n < 2 {
		return 0
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}

// Tail returns the last n elements of xs (or all of them when shorter).
func Tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}

// DefinedLen returns the number of trailing non-NaN values in xs. Warm-up
// NaN is confined to a prefix, so this is the usable history length.
func DefinedLen(xs []float64) int {
	n := 0
	for i := len(xs) - 1; i >= 0; i-- {
		if math.IsNaN(xs[i]) {
			break
		}
		n++
	}
	return n
}

// Range returns max-min over the defined values of xs, or 0 when fewer than
// two are defined.
func Range(xs []float64) float64 {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	n := 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		n++
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if n < 2 {
		return 0
	}
	return hi - lo
}

// Peaks returns indices of local maxima of xs whose prominence is at least
// minProm, in ascending index order. Prominence is measured as the height of
// the peak above the higher of the two valleys separating it from taller
// terrain on either side.
func Peaks(xs []float64, minProm float64) []int {
	var out []int
	for i := 1; i < len(xs)-1; i++ {
		if math.IsNaN(xs[i]) {
			continue
		}
		if !(xs[i] > xs[i-1] && xs[i] >= xs[i+1]) {
			continue
		}
		if prominence(xs, i) >= minProm {
			out = append(out, i)
		}
	}
	return out
}

// Troughs returns indices of local minima with at least minProm prominence.
func Troughs(xs []float64, minProm float64) []int {
	inv := make([]float64, len(xs))
	for i, x := range xs {
		inv[i] = -x
	}
	return Peaks(inv, minProm)
}

func prominence(xs []float64, peak int) float64 {
	h := xs[peak]

	leftMin := h
	for i := peak - 1; i >= 0; i-- {
		if math.IsNaN(xs[i]) {
			break
		}
		if xs[i] > h {
			break
		}
		if xs[i] < leftMin {
			leftMin = xs[i]
		}
	}

	rightMin := h
	for i := peak + 1; i < len(xs); i++ {
		if math.IsNaN(xs[i]) {
			break
		}
		if xs[i] > h {
			break
		}
		if xs[i] < rightMin {
			rightMin = xs[i]
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return h - base
}
