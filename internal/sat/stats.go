package sat

import (
	"fmt"
	"os"
	"time"
)

// EMA is an exponential moving average, used to track the average learnt
// clause size for the status line.
type EMA struct {
	decay float64
	value float64
	init  bool
}

// NewEMA returns an EMA with the given decay in (0, 1).
func NewEMA(decay float64) EMA {
	return EMA{decay: decay}
}

// Add folds x into the average.
func (e *EMA) Add(x float64) {
	if !e.init {
		e.init = true
		e.value = x
		return
	}
	e.value = e.decay*e.value + x*(1-e.decay)
}

// Val returns the current average.
func (e *EMA) Val() float64 {
	return e.value
}

// printStatusHeader prints the column header for the periodic status line.
func (s *Solver) printStatusHeader() {
	if s.opts.Verbosity == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "c ---------------------------------------------------------------------------")
	fmt.Fprintln(os.Stderr, "c       time   conflicts   decisions propagations     learnts avg-size  progress")
	fmt.Fprintln(os.Stderr, "c ---------------------------------------------------------------------------")
}

// printStatusLine prints one periodic status line: conflicts,
// decisions, propagations, learnt count, average learnt size, progress
// (fraction of trail filled), and elapsed wall-clock time since
// SolveLimited started (not CPU time).
func (s *Solver) printStatusLine() {
	if s.opts.Verbosity == 0 {
		return
	}
	progress := 0.0
	if n := s.NumVariables(); n > 0 {
		progress = float64(s.NumAssigns()) / float64(n)
	}
	fmt.Fprintf(os.Stderr,
		"c %10.2fs %11d %11d %12d %11d %8.1f %9.3f\n",
		time.Since(s.startTime).Seconds(),
		s.Stats.Conflicts,
		s.Stats.Decisions,
		s.Stats.Propagations,
		s.NumLearnts(),
		s.Stats.LearntsSize.Val(),
		progress,
	)
}
