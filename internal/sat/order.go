package sat

import (
	"github.com/rhartert/yagh"
)

// VarOrder maintains the VSIDS branching order: a max-heap of variables
// keyed by activity, implemented over a min-heap by storing negated scores.
// The heap itself is github.com/rhartert/yagh's generic indexed binary heap.
type VarOrder struct {
	order *yagh.IntMap[float64]

	scores     []float64
	scoreInc   float64
	scoreDecay float64

	phases      []LBool
	phaseSaving bool
}

func newVarOrder(decay float64, phaseSaving bool) *VarOrder {
	return &VarOrder{
		order:       yagh.New[float64](0),
		scoreInc:    1,
		scoreDecay:  decay,
		phaseSaving: phaseSaving,
	}
}

// addVar registers a new variable with the given initial activity and
// default polarity. It does not insert the variable into the heap — the
// caller does that via insert iff the variable is a decision variable.
func (vo *VarOrder) addVar(initScore float64, initPhase bool) {
	vo.scores = append(vo.scores, initScore)
	vo.phases = append(vo.phases, Lift(initPhase))
	vo.order.GrowBy(1)
}

// insert adds v back into the set of candidates for the next decision. The
// solver calls this both when declaring a new decision variable and when
// unassigning one during backtracking.
func (vo *VarOrder) insert(v Var) {
	vo.order.Put(int(v), -vo.scores[v])
}

// contains reports whether v is currently a candidate.
func (vo *VarOrder) contains(v Var) bool {
	return vo.order.Contains(int(v))
}

// savePhase records the polarity v was last assigned, for phase saving.
func (vo *VarOrder) savePhase(v Var, val LBool) {
	if vo.phaseSaving {
		vo.phases[v] = val
	}
}

// decay grows the bump increment, which has the effect of exponentially
// decaying the contribution of older conflicts relative to new ones.
func (vo *VarOrder) decay() {
	vo.scoreInc /= vo.scoreDecay
	if vo.scoreInc > 1e20 {
		vo.rescale()
	}
}

// bump increases v's activity, rescaling all activities if it overflows the
// 1e20 threshold. Rescaling preserves relative order.
func (vo *VarOrder) bump(v Var) {
	newScore := vo.scores[v] + vo.scoreInc
	vo.scores[v] = newScore
	if vo.order.Contains(int(v)) {
		vo.order.Put(int(v), -newScore)
	}
	if newScore > 1e20 {
		vo.rescale()
	}
}

func (vo *VarOrder) rescale() {
	vo.scoreInc *= 1e-20
	for v, sc := range vo.scores {
		newScore := sc * 1e-20
		vo.scores[v] = newScore
		if vo.order.Contains(v) {
			vo.order.Put(v, -newScore)
		}
	}
}

// popVar removes and returns the highest-activity variable still in the
// heap, ignoring eligibility — the caller (pickBranchLit) is responsible for
// skipping variables that are already assigned.
func (vo *VarOrder) popVar() (Var, bool) {
	next, ok := vo.order.Pop()
	if !ok {
		return 0, false
	}
	return Var(next.Elem), true
}

// phaseOf returns the polarity preferred for v's next decision.
func (vo *VarOrder) phaseOf(v Var) LBool {
	return vo.phases[v]
}

// pickBranchLit selects the next branching literal using VSIDS, random
// decisions (rnd-freq/rnd-seed), and phase saving / rnd-pol / pinned
// polarity. It returns LitUndef if every variable is
// already assigned or ineligible.
func (s *Solver) pickBranchLit() Literal {
	var next Var = -1

	if s.opts.RandomVarFreq > 0 && s.rng.Float64() < s.opts.RandomVarFreq {
		if v := s.randomEligibleVar(); v >= 0 {
			next = v
		}
	}

	for next < 0 {
		v, ok := s.order.popVar()
		if !ok {
			return LitUndef
		}
		if s.assigned(v) || !s.vars[v].decision || s.vars[v].eliminated {
			continue
		}
		next = v
	}

	if s.opts.RandomPolarity && s.rng.Intn(2) == 0 {
		return NegativeLiteral(next)
	}
	switch s.order.phaseOf(next) {
	case False:
		return NegativeLiteral(next)
	default:
		return PositiveLiteral(next)
	}
}

// randomEligibleVar samples uniformly over declared variables for a random
// decision, returning -1 if none is currently eligible after one scan
// attempt. Reproducibility only requires that the same rng seed and
// history produce the same sequence of choices, which this
// preserves since it consumes exactly one rng draw per call site.
func (s *Solver) randomEligibleVar() Var {
	n := s.NumVariables()
	if n == 0 {
		return -1
	}
	start := s.rng.Intn(n)
	for i := 0; i < n; i++ {
		v := Var((start + i) % n)
		if !s.assigned(v) && s.vars[v].decision && !s.vars[v].eliminated {
			return v
		}
	}
	return -1
}
