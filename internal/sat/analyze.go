package sat

// explainLiterals returns the negated literals that justify pivot's
// assignment under reason clause cref, or (when pivot is LitUndef) the
// negated literals of cref itself treated as the conflicting clause. A
// reason clause's asserted literal always sits at index 0 (the
// propagate/enqueue contract), so explaining an assignment skips it. Using
// a learnt clause as an explanation bumps its activity.
func (s *Solver) explainLiterals(cref CRef, pivot Literal) []Literal {
	c := s.arena.Lookup(cref)
	if c.Learnt() {
		s.bumpClauseActivity(c)
	}

	out := s.tmpReason[:0]
	n := c.Len()
	start := 0
	if pivot != LitUndef {
		start = 1
	}
	for i := start; i < n; i++ {
		out = append(out, c.Lit(i).Negated())
	}
	s.tmpReason = out
	return out
}

// bumpClauseActivity increases c's activity by the current clause
// increment, rescaling every learnt clause's activity if it overflows.
func (s *Solver) bumpClauseActivity(c Clause) {
	c.SetActivity(c.Activity() + s.clauseInc)
	if c.Activity() > 1e20 {
		for _, cref := range s.learnts {
			lc := s.arena.Lookup(cref)
			lc.SetActivity(lc.Activity() * 1e-20)
		}
		s.clauseInc *= 1e-20
	}
}

// decayClauseActivity grows the clause increment, the clause-side analogue
// of VarOrder.decay.
func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.opts.ClauseDecay
}

func abstractLevel(level int32) uint32 {
	return 1 << (uint32(level) & 31)
}

// analyze performs 1-UIP conflict analysis starting from the clause confl,
// which is currently falsified. It returns the asserting
// learnt clause (with the UIP literal at index 0 and, for multi-literal
// clauses, the literal of next-highest level at index 1, ready for
// attachClause's watcher convention) and the decision level to backtrack
// to.
func (s *Solver) analyze(confl CRef) ([]Literal, int) {
	s.seen.Clear()

	learnt := s.tmpLearnt[:1] // index 0 reserved for the UIP literal
	pathCount := 0

	p := LitUndef
	idx := len(s.trail) - 1

	for {
		for _, lit := range s.explainLiterals(confl, p) {
			v := lit.Var()
			if s.seen.Contains(int(v)) {
				continue
			}
			s.seen.Add(int(v))
			s.order.bump(v)

			level := s.vars[v].level
			switch {
			case level == int32(s.decisionLevel()):
				pathCount++
			case level > 0:
				learnt = append(learnt, lit.Negated())
			}
		}

		// Find the next seen literal walking backward over the trail; it
		// becomes the pivot for the next resolution step.
		for !s.seen.Contains(int(s.trail[idx].Var())) {
			idx--
		}
		p = s.trail[idx]
		confl = s.vars[p.Var()].reason
		idx--
		pathCount--
		if pathCount <= 0 {
			break
		}
	}

	learnt[0] = p.Negated()

	s.minimizeLearnt(&learnt)

	backtrackLevel := 0
	if len(learnt) > 1 {
		// Put the literal with the highest level (other than the UIP) at
		// index 1, the clause's second watcher slot.
		maxI := 1
		for i := 2; i < len(learnt); i++ {
			if s.vars[learnt[i].Var()].level > s.vars[learnt[maxI].Var()].level {
				maxI = i
			}
		}
		learnt[1], learnt[maxI] = learnt[maxI], learnt[1]
		backtrackLevel = int(s.vars[learnt[1].Var()].level)
	}

	s.tmpLearnt = learnt
	s.decayClauseActivity()
	s.order.decay()

	return learnt, backtrackLevel
}

// minimizeLearnt drops literals from *learnt (other than the UIP at index 0)
// that are redundant given the rest of the clause, per the ccmin-mode
// option:
//
//   - mode 0: no minimisation.
//   - mode 1 ("local"): drop a literal if every other literal in its reason
//     clause is already seen.
//   - mode 2 ("deep"): drop a literal if it is recursively implied by other
//     seen literals, explored via litRedundant's explicit stack.
func (s *Solver) minimizeLearnt(learnt *[]Literal) {
	out := *learnt

	switch s.opts.CCMinMode {
	case 2:
		var levels uint32
		for i := 1; i < len(out); i++ {
			levels |= abstractLevel(s.vars[out[i].Var()].level)
		}
		j := 1
		for i := 1; i < len(out); i++ {
			v := out[i].Var()
			if s.vars[v].reason == CRefUndef || !s.litRedundant(out[i], levels) {
				out[j] = out[i]
				j++
			}
		}
		*learnt = out[:j]
	case 1:
		j := 1
		for i := 1; i < len(out); i++ {
			v := out[i].Var()
			if s.vars[v].reason == CRefUndef {
				out[j] = out[i]
				j++
				continue
			}
			c := s.arena.Lookup(s.vars[v].reason)
			redundant := true
			for k := 1; k < c.Len(); k++ {
				cv := c.Lit(k).Var()
				if !s.seen.Contains(int(cv)) && s.vars[cv].level > 0 {
					redundant = false
					break
				}
			}
			if !redundant {
				out[j] = out[i]
				j++
			}
		}
		*learnt = out[:j]
	}
}

// litRedundant reports whether p's assignment is implied by other literals
// already in the seen set, exploring its reason clause's antecedents
// recursively via the solver's scratch stack. levels is the union of
// abstract levels of the learnt clause being minimised, used to cheaply
// reject antecedents that reach an unrelated decision level. On failure,
// every mark this call added (but none from the outer analyze pass) is
// rolled back.
func (s *Solver) litRedundant(p Literal, levels uint32) bool {
	stack := s.tmpAnalyzeStk[:0]
	stack = append(stack, p)

	marked := s.tmpMarked[:0]

	ok := true
outer:
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := s.arena.Lookup(s.vars[top.Var()].reason)
		if c.Len() == 2 && s.value(c.Lit(0)) == False {
			c.Swap(0, 1)
		}

		for i := 1; i < c.Len(); i++ {
			q := c.Lit(i)
			v := q.Var()
			if s.seen.Contains(int(v)) || s.vars[v].level == 0 {
				continue
			}
			if s.vars[v].reason != CRefUndef && levels&abstractLevel(s.vars[v].level) != 0 {
				s.seen.Add(int(v))
				stack = append(stack, q)
				marked = append(marked, v)
			} else {
				ok = false
				break outer
			}
		}
	}

	if !ok {
		for _, v := range marked {
			s.seen.Remove(int(v))
		}
	}
	s.tmpAnalyzeStk = stack[:0]
	s.tmpMarked = marked[:0]
	return ok
}

// analyzeFinal computes the final-conflict clause used when SolveLimited is
// called under assumptions and returns unsatisfiable: the
// subset of negated assumptions that together with the clause database
// derive false. p is the literal that was found conflicting (the negation
// of the first assumption that propagation falsified).
func (s *Solver) analyzeFinal(p Literal) []Literal {
	out := []Literal{p}
	s.seen.Clear()
	s.seen.Add(int(p.Var()))

	for i := len(s.trail) - 1; i >= 0; i-- {
		l := s.trail[i]
		v := l.Var()
		if !s.seen.Contains(int(v)) {
			continue
		}
		if s.vars[v].reason == CRefUndef {
			if s.vars[v].level > 0 {
				out = append(out, l.Negated())
			}
			continue
		}
		c := s.arena.Lookup(s.vars[v].reason)
		for j := 1; j < c.Len(); j++ {
			w := c.Lit(j).Var()
			if s.vars[w].level > 0 {
				s.seen.Add(int(w))
			}
		}
	}

	return out
}
