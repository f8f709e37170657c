package sat

import "time"

// Learnt-clause budget growth: the internal policy that turns min-learnts
// into a moving budget. Not exposed as tunables (see options.go).
const (
	learntSizeFactor      = 1.0 / 3.0
	learntSizeInc         = 1.1
	learntAdjustStartConf = 100
	learntAdjustInc       = 1.5
)

// search runs the CDCL loop for up to nofConflicts conflicts (unlimited if
// negative), returning True/False on a definite answer or Unknown when the
// restart budget, a resource limit or the interrupt stops it. reduceDB runs
// inside the loop and does not end the call.
func (s *Solver) search(nofConflicts int64) LBool {
	conflictC := int64(0)

	for {
		if s.AsynchInterrupt.IsSet() {
			s.cancelUntil(0)
			return Unknown
		}

		confl := s.propagate()

		if confl != CRefUndef {
			s.Stats.Conflicts++
			conflictC++
			if s.decisionLevel() == 0 {
				return False
			}

			learnt, backtrackLevel := s.analyze(confl)
			s.cancelUntil(backtrackLevel)
			s.Stats.LearntsSize.Add(float64(len(learnt)))

			if len(learnt) == 1 {
				s.enqueue(learnt[0], CRefUndef)
			} else {
				lits := append([]Literal(nil), learnt...)
				cref := s.attachClause(lits, true)
				s.learnts = append(s.learnts, cref)
				c := s.arena.Lookup(cref)
				s.bumpClauseActivity(c)
				s.enqueue(lits[0], cref)
			}

			s.learntAdjustCnt--
			if s.learntAdjustCnt == 0 {
				s.learntAdjustConf *= learntAdjustInc
				s.learntAdjustCnt = int64(s.learntAdjustConf)
				s.maxLearnts *= learntSizeInc
				if s.opts.Verbosity >= 1 {
					s.printStatusLine()
				}
			}
			continue
		}

		// No conflict.
		if !s.withinBudget() || (nofConflicts >= 0 && conflictC >= nofConflicts) {
			s.cancelUntil(len(s.assumptions))
			return Unknown
		}

		if s.decisionLevel() == 0 {
			if !s.simplifyTop() {
				return False
			}
		}

		if len(s.learnts)-s.NumAssigns() >= int(s.maxLearnts) {
			s.reduceDB()
		}

		var next Literal = LitUndef
		for s.decisionLevel() < len(s.assumptions) {
			p := s.assumptions[s.decisionLevel()]
			switch s.value(p) {
			case True:
				s.newDecisionLevel()
			case False:
				s.Conflict = s.analyzeFinal(p.Negated())
				return False
			default:
				next = p
			}
			if next != LitUndef {
				break
			}
		}

		if next == LitUndef {
			s.Stats.Decisions++
			next = s.pickBranchLit()
			if next == LitUndef {
				return True
			}
		}

		s.assume(next)
	}
}

// withinBudget reports whether the solver is still under its configured
// conflict/propagation limits.
func (s *Solver) withinBudget() bool {
	if s.opts.MaxConflicts >= 0 && s.Stats.Conflicts >= s.opts.MaxConflicts {
		return false
	}
	if s.opts.MaxPropagations >= 0 && s.Stats.Propagations >= s.opts.MaxPropagations {
		return false
	}
	return true
}

// Solve runs the solver to completion with no assumptions.
func (s *Solver) Solve() Status {
	return s.SolveLimited(nil)
}

// SolveLimited runs unit propagation over the given assumptions, then the
// restart-driven search loop, until a definite answer or a configured
// resource limit is hit. Returns StatusUnknown if the limit or the
// cooperative interrupt fired before a definite answer.
func (s *Solver) SolveLimited(assumptions []Literal) Status {
	if s.unsat {
		return StatusUnsat
	}

	s.assumptions = assumptions
	s.Conflict = nil
	s.startTime = time.Now()
	s.printStatusHeader()

	if s.maxLearnts == 0 {
		s.maxLearnts = float64(len(s.constraints)) * learntSizeFactor
		if s.maxLearnts < float64(s.opts.MinLearnts) {
			s.maxLearnts = float64(s.opts.MinLearnts)
		}
		s.learntAdjustConf = learntAdjustStartConf
		s.learntAdjustCnt = int64(s.learntAdjustConf)
	}

	status := Unknown
	for status == Unknown {
		budget := s.restarter.next()
		status = s.search(budget)
		if !s.withinBudget() || s.AsynchInterrupt.IsSet() {
			break
		}
		s.Stats.Restarts++
	}

	switch status {
	case True:
		s.extendModel()
		s.cancelUntil(0)
		return StatusSat
	case False:
		if len(s.assumptions) == 0 {
			s.unsat = true
		}
		s.cancelUntil(0)
		return StatusUnsat
	default:
		s.cancelUntil(0)
		return StatusUnknown
	}
}

// extendModel snapshots the current trail assignment into Model (indexed by
// Var) and, if the simplifier eliminated any variables, extends it back over
// them using the reconstruction stack.
func (s *Solver) extendModel() {
	s.Model = make([]bool, len(s.vars))
	for v := 0; v < len(s.vars); v++ {
		s.Model[v] = s.VarValue(Var(v)) == True
	}
	if s.simp != nil {
		s.simp.extendModel(s.Model)
	}
}
