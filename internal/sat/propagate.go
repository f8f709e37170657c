package sat

// propagate runs two-watched-literal BCP over the trail from the current
// queue head forward, returning the conflicting clause's CRef
// or CRefUndef if the assignment reached a BCP-closed fixpoint.
func (s *Solver) propagate() CRef {
	confl := CRefUndef

	for s.qhead < len(s.trail) {
		l := s.trail[s.qhead]
		s.qhead++
		s.Stats.Propagations++

		ws := s.w.lists[l.index()]
		i, j := 0, 0

		for i < len(ws) {
			blocker := ws[i].blocker
			if s.value(blocker) == True {
				ws[j] = ws[i]
				i++
				j++
				continue
			}

			cref := ws[i].cref
			c := s.arena.Lookup(cref)

			// Make sure the false literal is c.Lit(1) so that c.Lit(0) is the
			// "other" literal throughout the rest of this function.
			falseLit := l.Negated()
			if c.Lit(0) == falseLit {
				c.Swap(0, 1)
			}
			first := c.Lit(0)
			w := watcher{cref: cref, blocker: first}

			if first != blocker && s.value(first) == True {
				ws[j] = w
				i++
				j++
				continue
			}

			foundNew := false
			n := c.Len()
			for k := 2; k < n; k++ {
				if s.value(c.Lit(k)) != False {
					c.Swap(1, k)
					i++
					s.w.attach(c.Lit(1).Negated(), cref, first)
					foundNew = true
					break
				}
			}
			if foundNew {
				continue
			}

			// C is unit or conflicting under first.
			ws[j] = w
			j++
			if s.value(first) == False {
				confl = cref
				s.qhead = len(s.trail)
				// Copy the remaining unscanned watchers forward,
				// preserving order.
				for i++; i < len(ws); i++ {
					ws[j] = ws[i]
					j++
				}
				break
			}
			s.enqueue(first, cref)
			i++
		}

		s.w.lists[l.index()] = ws[:j]
		if confl != CRefUndef {
			break
		}
	}

	return confl
}
