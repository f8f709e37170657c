package sat

// restartPolicy produces the conflict budget for each successive restart.
type restartPolicy interface {
	// next returns the conflict budget for the next restart and advances
	// the policy's internal counter.
	next() int64
}

// luby returns the standard reluctant-doubling sequence value at index x
// (0-based), using factor y: 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,... when y=2.
func luby(y float64, x int64) float64 {
	// Find the finite subsequence that contains x.
	size, seq := int64(1), 0.0
	for size < x+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != x {
		size = (size - 1) / 2
		seq--
		x = x % size
	}
	result := 1.0
	for i := 0.0; i < seq; i++ {
		result *= y
	}
	return result
}

// lubyRestart implements the Luby-sequence restart schedule: the i-th
// restart's budget is restartFirst * luby(restartInc, i).
type lubyRestart struct {
	first int
	inc   float64
	i     int64
}

func newLubyRestart(first int, inc float64) *lubyRestart {
	return &lubyRestart{first: first, inc: inc, i: 0}
}

func (r *lubyRestart) next() int64 {
	budget := int64(float64(r.first) * luby(r.inc, r.i))
	r.i++
	return budget
}

// geometricRestart implements the non-Luby alternative (luby-restart=false):
// the budget is multiplied by restartInc on every restart.
type geometricRestart struct {
	inc     float64
	current float64
}

func newGeometricRestart(first int, inc float64) *geometricRestart {
	return &geometricRestart{inc: inc, current: float64(first)}
}

func (r *geometricRestart) next() int64 {
	budget := r.current
	r.current *= r.inc
	return int64(budget)
}
