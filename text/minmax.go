package text

// ApplyMinMax clamps count elements of buffer in place. buffer holds count
// elements of len(buffer)/count components each; component d of every
// element is clamped to [lower[d], upper[d]]. Components beyond len(lower)
// or len(upper) pass through unclamped on that side.
func ApplyMinMax(lower, upper []float64, count int, buffer []float64) {
	if count <= 0 || len(buffer) < count {
		return
	}
	stride := len(buffer) / count
	for i := 0; i < count; i++ {
		elem := buffer[i*stride : (i+1)*stride]
		for d := range elem {
			if d < len(lower) && elem[d] < lower[d] {
				elem[d] = lower[d]
			}
			if d < len(upper) && elem[d] > upper[d] {
				elem[d] = upper[d]
			}
		}
	}
}
