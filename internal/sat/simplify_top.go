package sat

// simplifyTop runs at decision level 0 with no pending conflict: it
// propagates to a fixpoint, then removes satisfied clauses and strips
// false literals from the rest of the constraint and learnt databases.
// Returns false if this ever derives the empty clause.
func (s *Solver) simplifyTop() bool {
	if s.unsat {
		return false
	}
	if s.propagate() != CRefUndef {
		s.unsat = true
		return false
	}

	s.removeSatisfied(&s.learnts)
	s.removeSatisfied(&s.constraints)
	s.maybeGC(s.opts.GCFrac)

	return true
}

func (s *Solver) clauseSatisfied(c Clause) bool {
	n := c.Len()
	for i := 0; i < n; i++ {
		if s.value(c.Lit(i)) == True {
			return true
		}
	}
	return false
}

// removeSatisfied drops every satisfied clause from *list and strips any
// literal already false at level 0 from the rest, leaving the two watched
// literals (indices 0/1) untouched — at a level-0 safe point an
// unsatisfied clause's watched literals are never themselves false, since
// propagate() has already run to a fixpoint.
func (s *Solver) removeSatisfied(list *[]CRef) {
	cs := *list
	j := 0
	for _, cref := range cs {
		c := s.arena.Lookup(cref)
		if c.Mark() == 1 {
			continue // already retired by the simplifier
		}
		if s.clauseSatisfied(c) {
			s.removeClause(cref)
			continue
		}

		n := c.Len()
		k := 2
		if n < k {
			k = n
		}
		for k < n {
			if s.value(c.Lit(k)) == False {
				n--
				c.Swap(k, n)
				if s.simp != nil && s.simp.active {
					s.simp.removeOcc(c.Lit(n), cref)
				}
			} else {
				k++
			}
		}
		if n != c.Len() {
			c.Shrink(n)
			c.RefreshAbstraction()
		}

		cs[j] = cref
		j++
	}
	*list = cs[:j]
}

// ExportSimplified returns the current non-learnt clause database and, if
// the simplifier is enabled, its elimination reconstruction stack: the
// payload of the front end's `-dimacs=<file>` flag.
func (s *Solver) ExportSimplified() (nVars int, clauses [][]Literal, elimStack []Literal) {
	clauses = make([][]Literal, 0, len(s.constraints))
	for _, cref := range s.constraints {
		c := s.arena.Lookup(cref)
		if c.Mark() == 1 {
			continue
		}
		clauses = append(clauses, c.Literals())
	}
	if s.simp != nil {
		elimStack = s.simp.elimStack
	}
	return len(s.vars), clauses, elimStack
}

// Eliminate runs the simplifier to a fixpoint over the current clause
// database. It is a no-op returning true if the simplifier is disabled.
// Intended to be called before the first Solve/SolveLimited call, by the
// front end (main.go) or the `-dimacs=` CNF emission path. With turnOffElim
// set, the occurrence-list bookkeeping is dropped afterwards (clauses added
// later, e.g. learnt or blocking clauses, are then no longer tracked); the
// reconstruction stack is kept so SAT models still extend over eliminated
// variables.
func (s *Solver) Eliminate(turnOffElim bool) bool {
	if s.simp == nil || !s.simp.active {
		return !s.unsat
	}
	if !s.simplifyTop() {
		return false
	}
	ok := s.simp.eliminate()
	if ok {
		s.maybeGC(s.opts.SimpGCFrac)
	}
	if turnOffElim {
		s.simp.turnOff()
	}
	return ok
}
