package sat

// AddClause adds a clause over the given literals to the problem, valid
// only at decision level 0. Duplicate literals are removed, tautologies and
// clauses already satisfied at level 0 are silently dropped, and literals
// already false at level 0 are stripped. Returns false if the clause (or
// unit propagation following it) made the problem unsatisfiable; the solver
// remains usable but every subsequent call returns false immediately.
func (s *Solver) AddClause(literals []Literal) bool {
	if s.unsat {
		return false
	}

	lits := append([]Literal(nil), literals...)
	result, out := normalizeClause(s, lits)

	switch result {
	case clauseUnsat:
		s.unsat = true
		return false
	case clauseTrivial:
		return true
	case clauseUnit:
		if !s.enqueue(out[0], CRefUndef) {
			s.unsat = true
			return false
		}
		if s.propagate() != CRefUndef {
			s.unsat = true
			return false
		}
		return true
	default:
		if s.opts.RCheck && s.implied(out) {
			return true
		}
		cref := s.attachClause(out, false)
		s.constraints = append(s.constraints, cref)
		if s.simp != nil {
			s.simp.clauseAdded(s.arena.Lookup(cref))
		}
		return true
	}
}

// implied reports whether lits is already a consequence of the clause
// database: assuming every literal false at a throwaway decision level must
// then produce a conflict under unit propagation. Drives the rcheck option,
// which skips storing redundant clauses at the cost of one propagation pass
// per added clause.
func (s *Solver) implied(lits []Literal) bool {
	s.newDecisionLevel()
	for _, l := range lits {
		switch s.value(l) {
		case True:
			s.cancelUntil(0)
			return true
		case Unknown:
			s.enqueue(l.Negated(), CRefUndef)
		}
	}
	result := s.propagate() != CRefUndef
	s.cancelUntil(0)
	return result
}

// Freeze marks v as ineligible for elimination by the simplifier: useful
// for variables the caller needs to query or assume after solving even if
// the kernel would otherwise resolve them away.
func (s *Solver) Freeze(v Var) {
	s.vars[v].frozen = true
}
