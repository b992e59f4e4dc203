package core

import "math"

// Tick is the logical clock of the host store. It advances once per
// scheduling step and wraps around; comparisons must therefore use the
// windowed IsNewerThan relation rather than raw subtraction.
type Tick uint32

// maxTickAge caps relative tick ages so that comparisons stay meaningful
// after the counter wraps. Ages beyond the cap are clamped and compare
// equal, which is correct as long as the removal feed's retention window
// is far shorter than the cap.
const maxTickAge = math.MaxUint32 / 2

// Sub returns the wrapping difference t - o.
func (t Tick) Sub(o Tick) uint32 {
	return uint32(t) - uint32(o)
}

// age returns how many ticks ago t happened relative to now, clamped.
func (t Tick) age(now Tick) uint32 {
	a := now.Sub(t)
	if a > maxTickAge {
		return maxTickAge
	}
	return a
}

// IsNewerThan reports whether t happened after since, judged from now.
// Both ages are clamped to the comparison window, so the relation is
// safe across counter wraparound.
func (t Tick) IsNewerThan(since, now Tick) bool {
	return since.age(now) > t.age(now)
}
