package sat

import "sort"

// attachClause allocates literals as a new clause in the arena and wires its
// watchers, returning the CRef. For learnt clauses, the caller is
// responsible for having already placed the literal with the highest
// decision level at index 1 (the second watcher).
//
// Non-learnt clauses are normalised to ascending Literal order before
// allocation: this keeps the simplifier's subset/subsumption tests correct.
// Learnt
// clauses are never reordered here, since their first two literals are
// load-bearing watcher positions.
func (s *Solver) attachClause(literals []Literal, learnt bool) CRef {
	if !learnt {
		sort.Slice(literals, func(i, j int) bool { return literals[i] < literals[j] })
	}
	cref := s.arena.Alloc(literals, learnt)
	c := s.arena.Lookup(cref)
	s.w.attach(c.Lit(0).Negated(), cref, c.Lit(1))
	s.w.attach(c.Lit(1).Negated(), cref, c.Lit(0))
	return cref
}

// detachClause removes a clause's watchers without freeing its arena words
// (used when the clause is about to be reattached with different literals,
// e.g. after self-subsuming resolution).
func (s *Solver) detachClause(cref CRef) {
	c := s.arena.Lookup(cref)
	s.w.detach(c.Lit(0).Negated(), cref)
	s.w.detach(c.Lit(1).Negated(), cref)
}

// removeClause detaches and frees a clause, removing it from occurrence
// lists if the simplifier is tracking them.
func (s *Solver) removeClause(cref CRef) {
	c := s.arena.Lookup(cref)
	if s.simp != nil {
		s.simp.clauseDeleted(c)
	}
	s.detachClause(cref)
	c.SetMark(1) // tombstone: arena words stay valid until the next relocAll, but
	// any CRef still sitting in a subsumption queue must know to skip it.
	s.arena.Free(cref, c.Learnt())
}

// newClauseResult reports what happened when a tentative clause was
// normalised: it is either unsatisfiable (empty), trivially satisfied
// (tautology or already true), reduced to a single literal (propagated
// directly at level 0), or a genuine multi-literal clause ready for
// attachClause.
type newClauseResult int

const (
	clauseUnsat newClauseResult = iota
	clauseTrivial
	clauseUnit
	clauseNormal
)

// normalizeClause removes duplicate literals, detects tautologies, and
// drops literals already false at level 0. It mutates literals in place and
// returns the result along with
// the (possibly shortened) slice.
func normalizeClause(s *Solver, literals []Literal) (newClauseResult, []Literal) {
	sort.Slice(literals, func(i, j int) bool { return literals[i] < literals[j] })

	out := literals[:0]
	var prev Literal = LitUndef
	for _, l := range literals {
		if l == prev {
			continue // duplicate
		}
		if l.Negated() == prev {
			return clauseTrivial, nil // tautology
		}
		switch s.value(l) {
		case True:
			return clauseTrivial, nil
		case False:
			prev = l
			continue // drop false literal
		}
		out = append(out, l)
		prev = l
	}

	switch len(out) {
	case 0:
		return clauseUnsat, nil
	case 1:
		return clauseUnit, out
	default:
		return clauseNormal, out
	}
}
