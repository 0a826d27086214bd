package engine

// RateRange is one supported sample-rate interval advertised by an
// output device. A zero range means the device did not report a rate
// and is treated as matching anything.
type RateRange struct {
	Min uint32
	Max uint32
}

// Contains reports whether rate falls inside the range.
func (r RateRange) Contains(rate uint32) bool {
	if r.Min == 0 && r.Max == 0 {
		return true
	}

	return r.Min <= rate && rate <= r.Max
}

// NegotiateRate returns the target rate when any advertised range
// contains it. Outputs must run at the capture rate to avoid audible
// pitch and speed distortion, since no resampling stage exists; the
// first containing range wins and is fixed to the target exactly.
//
// ok is false when no range matches. The caller then falls back to the
// device's own default configuration and accepts the mismatch as a
// known degradation rather than an error.
func NegotiateRate(ranges []RateRange, target uint32) (rate uint32, ok bool) {
	for _, r := range ranges {
		if r.Contains(target) {
			return target, true
		}
	}

	return 0, false
}
