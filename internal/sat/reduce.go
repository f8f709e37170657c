package sat

import "sort"

// reduceDB sorts learnt clauses by ascending activity and removes the
// (roughly) worse half, excluding clauses that are a current propagation
// reason and clauses of length <= 2. Watches of removed clauses are
// detached and their arena space
// freed; a GC may then be triggered.
func (s *Solver) reduceDB() {
	learnts := s.learnts
	sort.Slice(learnts, func(i, j int) bool {
		ci := s.arena.Lookup(learnts[i])
		cj := s.arena.Lookup(learnts[j])
		return ci.Activity() < cj.Activity()
	})

	// lim is the activity threshold below which a clause past the first
	// half is still removed (gophersat-style sort-then-trim idiom).
	lim := s.clauseInc / float64(maxInt(len(learnts), 1))

	j := 0
	half := len(learnts) / 2
	for i := 0; i < len(learnts); i++ {
		cref := learnts[i]
		c := s.arena.Lookup(cref)

		exempt := c.Len() <= 2 || locked(s, cref)
		remove := !exempt && (i < half || c.Activity() < lim)

		if remove {
			s.removeClause(cref)
		} else {
			learnts[j] = cref
			j++
		}
	}
	s.learnts = learnts[:j]

	s.maybeGC(s.opts.GCFrac)
}

// maybeGC triggers relocAll when the arena's wasted fraction crosses frac.
func (s *Solver) maybeGC(frac float64) {
	if s.arena.ShouldGC(frac) {
		s.relocAll()
	}
}

// relocAll compacts the clause arena: every CRef held anywhere in the
// solver (watch lists, occurrence lists, reasons, the learnt/constraint
// lists, the simplifier's subsumption queue) is rewritten to
// point into a fresh arena, and the old arena is discarded.
func (s *Solver) relocAll() {
	to := NewClauseAllocator(s.arena.Cap())

	s.w.relocAll(s.arena, to)

	for i := range s.vars {
		if s.vars[i].reason != CRefUndef {
			reloc(&s.vars[i].reason, s.arena, to)
		}
	}
	// Clauses retired by the simplifier may still sit in the clause lists;
	// they are dropped here rather than copied into the fresh arena.
	s.constraints = relocList(s.constraints, s.arena, to)
	s.learnts = relocList(s.learnts, s.arena, to)
	if s.simp != nil {
		s.simp.relocAll(s.arena, to)
	}

	s.arena = to
}

func relocList(list []CRef, from, to *ClauseAllocator) []CRef {
	out := list[:0]
	for _, cref := range list {
		if from.Lookup(cref).Mark() == 1 {
			continue
		}
		reloc(&cref, from, to)
		out = append(out, cref)
	}
	return out
}
