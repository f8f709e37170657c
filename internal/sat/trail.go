package sat

// newDecisionLevel pushes the current trail length onto trailLim, marking
// the start of a new decision level.
func (s *Solver) newDecisionLevel() {
	s.trailLim = append(s.trailLim, len(s.trail))
}

// enqueue asserts l as true with the given reason. Its precondition is
// value(l) != False; if l is already true it is a no-op; otherwise it
// records value/level/reason and appends l to the trail. It returns false
// only if l was already assigned False, i.e. a conflicting assignment.
func (s *Solver) enqueue(l Literal, reason CRef) bool {
	switch s.value(l) {
	case False:
		return false
	case True:
		return true
	}

	v := l.Var()
	s.assigns[l.index()] = True
	s.assigns[l.Negated().index()] = False
	s.vars[v].level = int32(s.decisionLevel())
	s.vars[v].reason = reason
	s.trail = append(s.trail, l)
	return true
}

// cancelUntil pops the trail back to the start of the given decision level.
// Each undone variable has its assignment cleared and goes back into the
// order heap if it is a branching candidate. Phase saving records the
// polarity the variable held: always in mode 2, only for the innermost
// decision level in mode 1.
func (s *Solver) cancelUntil(level int) {
	if s.decisionLevel() > level {
		lastLim := s.trailLim[len(s.trailLim)-1]
		target := s.trailLim[level]
		for i := len(s.trail) - 1; i >= target; i-- {
			l := s.trail[i]
			v := l.Var()
			if s.opts.PhaseSaving > 1 || (s.opts.PhaseSaving == 1 && i >= lastLim) {
				s.order.savePhase(v, Lift(l.IsPositive()))
			}
			s.assigns[l.index()] = Unknown
			s.assigns[l.Negated().index()] = Unknown
			s.vars[v].reason = CRefUndef
			s.vars[v].level = -1
			if s.vars[v].decision && !s.vars[v].eliminated {
				s.order.insert(v)
			}
		}
		s.trail = s.trail[:target]
		s.trailLim = s.trailLim[:level]
	}
	s.qhead = len(s.trail)
}

// assume pushes a new decision level and enqueues l as a decision (reason
// CRefUndef).
func (s *Solver) assume(l Literal) bool {
	s.newDecisionLevel()
	return s.enqueue(l, CRefUndef)
}
