package sat

import "github.com/rhartert/yagh"

// simplifier implements bounded variable elimination and backward
// subsumption over the non-learnt clause database. It maintains a
// literal-indexed occurrence list and a min-heap of live variables ordered
// by ascending elimination cost, both kept current by the
// clauseAdded/clauseDeleted hooks the solver calls from attachClause's
// callers and removeClause.
type simplifier struct {
	s *Solver

	// active is cleared by turnOff: the occurrence bookkeeping stops, but
	// elimStack survives so models can still be extended over variables
	// eliminated earlier.
	active bool

	occ [][]CRef // indexed by Literal.index()

	heap *yagh.IntMap[int] // var -> |occ_pos|*|occ_neg|, ascending

	subQueue []CRef

	// elimStack is the flat reconstruction record: for each eliminated
	// variable, in elimination order, its own positive literal, a clause
	// count, then for each removed clause a length-prefixed literal run.
	elimStack []Literal
}

func newSimplifier(s *Solver) *simplifier {
	return &simplifier{
		s:      s,
		active: true,
		heap:   yagh.New[int](0),
	}
}

// growTo registers a newly declared variable with the simplifier.
func (sp *simplifier) growTo(v Var) {
	if !sp.active {
		return
	}
	sp.occ = append(sp.occ, nil, nil)
	sp.heap.GrowBy(1)
	sp.heap.Put(int(v), 0)
}

// turnOff releases the occurrence lists and elimination heap once no more
// elimination rounds will run. The reconstruction stack is kept.
func (sp *simplifier) turnOff() {
	sp.active = false
	sp.occ = nil
	sp.heap = nil
	sp.subQueue = nil
}

func (sp *simplifier) cost(v Var) int {
	return len(sp.occ[PositiveLiteral(v).index()]) * len(sp.occ[NegativeLiteral(v).index()])
}

// touchVar reinserts v into the elimination heap with its current cost.
// This must happen unconditionally, not only while v is still in the heap:
// eliminateVar can pop v and leave it out after failing its growth/size
// bound, and a later clauseDeleted shrinking v's occurrence counts must
// still be able to bring it back into play.
func (sp *simplifier) touchVar(v Var) {
	sp.heap.Put(int(v), sp.cost(v))
}

// clauseAdded records a newly attached non-learnt clause in the occurrence
// lists, queues it for subsumption checking, and refreshes the elimination
// cost of each of its variables.
func (sp *simplifier) clauseAdded(c Clause) {
	if !sp.active {
		return
	}
	cref := c.Ref()
	n := c.Len()
	for i := 0; i < n; i++ {
		l := c.Lit(i)
		sp.occ[l.index()] = append(sp.occ[l.index()], cref)
	}
	sp.subQueue = append(sp.subQueue, cref)
	for i := 0; i < n; i++ {
		sp.touchVar(c.Lit(i).Var())
	}
}

// clauseDeleted removes a clause from the occurrence lists and refreshes
// the elimination cost of its variables. Called from removeClause, before
// the clause is tombstoned.
func (sp *simplifier) clauseDeleted(c Clause) {
	if !sp.active {
		return
	}
	n := c.Len()
	for i := 0; i < n; i++ {
		sp.removeOcc(c.Lit(i), c.Ref())
	}
	for i := 0; i < n; i++ {
		sp.touchVar(c.Lit(i).Var())
	}
}

func (sp *simplifier) removeOcc(l Literal, cref CRef) {
	list := sp.occ[l.index()]
	for i, r := range list {
		if r == cref {
			list[i] = list[len(list)-1]
			sp.occ[l.index()] = list[:len(list)-1]
			return
		}
	}
}

// relocAll rewrites every CRef the simplifier holds after a clause-arena
// compaction.
func (sp *simplifier) relocAll(from, to *ClauseAllocator) {
	if !sp.active {
		return
	}
	for i := range sp.occ {
		for j := range sp.occ[i] {
			reloc(&sp.occ[i][j], from, to)
		}
	}
	// Tombstoned clauses still queued for subsumption are dropped here
	// rather than copied into the fresh arena.
	q := sp.subQueue[:0]
	for _, cref := range sp.subQueue {
		if from.Lookup(cref).Mark() == 1 {
			continue
		}
		reloc(&cref, from, to)
		q = append(q, cref)
	}
	sp.subQueue = q
}

// eliminate runs subsumption and bounded variable elimination to a
// fixpoint or until every remaining candidate fails its growth/size bounds.
// Returns false if the process derived the empty clause.
func (sp *simplifier) eliminate() bool {
	if !sp.backwardSubsumptionCheck() {
		return false
	}
	for {
		next, ok := sp.heap.Pop()
		if !ok {
			break
		}
		v := Var(next.Elem)
		if sp.s.vars[v].frozen || sp.s.vars[v].eliminated || sp.s.assigned(v) || !sp.s.vars[v].decision {
			continue
		}
		if sp.s.opts.UseAsymm {
			if !sp.asymmVar(v) {
				return false
			}
			if sp.s.vars[v].eliminated || sp.s.assigned(v) {
				continue
			}
		}
		sp.eliminateVar(v)
		if sp.s.unsat {
			return false
		}
		if !sp.backwardSubsumptionCheck() {
			return false
		}
	}
	// Units enqueued by strengthening or by unit resolvents are propagated
	// once every clause is attached, so a conflict among them is reported here.
	if sp.s.propagate() != CRefUndef {
		sp.s.unsat = true
	}
	return !sp.s.unsat
}

// asymmVar attempts asymmetric branching on every clause containing v: the
// clause's other unassigned literals are temporarily assumed false, and if
// unit propagation then derives a conflict, v's literal is redundant in that
// clause and is removed by strengthening. Returns false if strengthening
// derived the empty clause.
func (sp *simplifier) asymmVar(v Var) bool {
	if sp.s.assigned(v) {
		return true
	}
	cls := make([]CRef, 0,
		len(sp.occ[PositiveLiteral(v).index()])+len(sp.occ[NegativeLiteral(v).index()]))
	cls = append(cls, sp.occ[PositiveLiteral(v).index()]...)
	cls = append(cls, sp.occ[NegativeLiteral(v).index()]...)
	for _, cref := range cls {
		if !sp.asymm(v, cref) {
			return false
		}
	}
	return sp.backwardSubsumptionCheck()
}

func (sp *simplifier) asymm(v Var, cref CRef) bool {
	c := sp.s.arena.Lookup(cref)
	if c.Mark() == 1 || sp.s.clauseSatisfied(c) {
		return true
	}

	sp.s.newDecisionLevel()
	drop := LitUndef
	for _, q := range c.Literals() {
		if q.Var() == v {
			drop = q
		} else if sp.s.value(q) != False {
			sp.s.enqueue(q.Negated(), CRefUndef)
		}
	}

	conflict := sp.s.propagate() != CRefUndef
	sp.s.cancelUntil(0)
	if conflict && drop != LitUndef {
		return sp.strengthenClause(cref, drop)
	}
	return true
}

// backwardSubsumptionCheck drains the subsumption queue: for each clause C,
// it scans occ(v) for the variable v of C with the smallest occurrence
// list, removing any clause D that C subsumes and
// strengthening any D that differs from C in exactly one literal's sign.
// Returns false if strengthening ever produces the empty clause.
func (sp *simplifier) backwardSubsumptionCheck() bool {
	for len(sp.subQueue) > 0 {
		cref := sp.subQueue[0]
		sp.subQueue = sp.subQueue[1:]

		c := sp.s.arena.Lookup(cref)
		if c.Mark() == 1 {
			continue // tombstoned since it was queued
		}
		if sp.s.opts.SubsumptionLim > 0 && c.Len() > sp.s.opts.SubsumptionLim {
			continue
		}

		best := -1
		bestSize := -1
		for i := 0; i < c.Len(); i++ {
			v := c.Lit(i).Var()
			size := len(sp.occ[PositiveLiteral(v).index()]) + len(sp.occ[NegativeLiteral(v).index()])
			if best < 0 || size < bestSize {
				best, bestSize = i, size
			}
		}
		if best < 0 {
			continue
		}
		v := c.Lit(best).Var()

		candidates := make([]CRef, 0, bestSize)
		candidates = append(candidates, sp.occ[PositiveLiteral(v).index()]...)
		candidates = append(candidates, sp.occ[NegativeLiteral(v).index()]...)

		for _, dref := range candidates {
			if dref == cref {
				continue
			}
			d := sp.s.arena.Lookup(dref)
			if d.Mark() == 1 {
				continue
			}
			// The abstraction keeps one bit per literal, so the two signs of
			// a variable sit in an adjacent bit pair; folding each pair makes
			// the filter sign-blind, letting clauses that differ from C in
			// one literal's sign through to subsumeCheck.
			fold := func(a uint32) uint32 { return (a | a>>1) & 0x55555555 }
			if fold(c.Abstraction())&^fold(d.Abstraction()) != 0 {
				continue // some variable of C cannot occur in D
			}

			subsumed, remove := subsumeCheck(c, d)
			switch {
			case subsumed:
				sp.s.removeClause(dref)
			case remove != LitUndef:
				if !sp.strengthenClause(dref, remove) {
					return false
				}
			}
		}
	}
	return true
}

// subsumeCheck reports whether c subsumes d (every literal of c occurs in
// d), or, failing that, whether d differs from c in exactly one literal's
// sign — in which case remove is d's literal that must be dropped by
// self-subsuming resolution.
func subsumeCheck(c, d Clause) (subsumed bool, remove Literal) {
	remove = LitUndef
	if d.Len() < c.Len() {
		return false, LitUndef
	}
	cn, dn := c.Len(), d.Len()
	for i := 0; i < cn; i++ {
		cl := c.Lit(i)
		matched := false
		for j := 0; j < dn; j++ {
			dl := d.Lit(j)
			if dl == cl {
				matched = true
				break
			}
			if dl == cl.Negated() {
				if remove != LitUndef {
					return false, LitUndef
				}
				remove = dl
				matched = true
				break
			}
		}
		if !matched {
			return false, LitUndef
		}
	}
	if remove == LitUndef {
		return true, LitUndef
	}
	return false, remove
}

// strengthenClause removes lit from d (self-subsuming resolution), detaching
// and reattaching its watchers, enqueueing the result if it becomes unit,
// and requeueing it for another subsumption pass. Returns false if d became
// the empty clause.
func (sp *simplifier) strengthenClause(dref CRef, lit Literal) bool {
	sp.s.detachClause(dref)
	d := sp.s.arena.Lookup(dref)

	n := d.Len()
	idx := -1
	for i := 0; i < n; i++ {
		if d.Lit(i) == lit {
			idx = i
			break
		}
	}
	d.Swap(idx, n-1)
	d.Shrink(n - 1)
	d.RefreshAbstraction()
	sp.removeOcc(lit, dref)
	sp.touchVar(lit.Var())

	if d.Len() == 1 {
		// The clause reduced to a unit fact: retire its record and
		// propagate the literal at level 0 instead of reattaching it.
		unit := d.Lit(0)
		sp.removeOcc(unit, dref)
		sp.touchVar(unit.Var())
		d.SetMark(1)
		sp.s.arena.Free(dref, d.Learnt())
		if !sp.s.enqueue(unit, CRefUndef) {
			sp.s.unsat = true
			return false
		}
		return true
	}

	sp.s.w.attach(d.Lit(0).Negated(), dref, d.Lit(1))
	sp.s.w.attach(d.Lit(1).Negated(), dref, d.Lit(0))
	sp.subQueue = append(sp.subQueue, dref)
	return true
}

// eliminateVar attempts to remove v by resolving every clause containing it
// pairwise against every clause containing ¬v, subject to the growth and
// resolvent-size bounds. A failed attempt leaves v untouched; it may be
// retried later if its cost changes.
func (sp *simplifier) eliminateVar(v Var) bool {
	pos := append([]CRef(nil), sp.occ[PositiveLiteral(v).index()]...)
	neg := append([]CRef(nil), sp.occ[NegativeLiteral(v).index()]...)

	grow := sp.s.opts.Grow
	if len(pos)*len(neg) > grow+len(pos)+len(neg) {
		return false
	}

	resolvents := make([][]Literal, 0, len(pos)*len(neg))
	for _, pc := range pos {
		p := sp.s.arena.Lookup(pc)
		for _, nc := range neg {
			n := sp.s.arena.Lookup(nc)
			lits, tautology := resolve(p, n, v)
			if tautology {
				continue
			}
			if sp.s.opts.ClauseLim > 0 && len(lits) > sp.s.opts.ClauseLim {
				return false
			}
			resolvents = append(resolvents, lits)
		}
	}

	sp.pushEliminationBlock(v, append(append([]CRef(nil), pos...), neg...))

	for _, cref := range pos {
		sp.s.removeClause(cref)
	}
	for _, cref := range neg {
		sp.s.removeClause(cref)
	}
	sp.s.vars[v].eliminated = true

	for _, lits := range resolvents {
		switch len(lits) {
		case 0:
			sp.s.unsat = true
		case 1:
			if !sp.s.enqueue(lits[0], CRefUndef) {
				sp.s.unsat = true
			}
		default:
			cref := sp.s.attachClause(lits, false)
			sp.s.constraints = append(sp.s.constraints, cref)
			sp.clauseAdded(sp.s.arena.Lookup(cref))
		}
	}
	return true
}

// resolve computes the resolvent of clauses p (containing v) and n
// (containing ¬v) over v, deduplicating literals and reporting a tautology
// if the resolvent would contain both a literal and its negation.
func resolve(p, n Clause, v Var) (lits []Literal, tautology bool) {
	lits = make([]Literal, 0, p.Len()+n.Len()-2)
	for i := 0; i < p.Len(); i++ {
		l := p.Lit(i)
		if l.Var() == v {
			continue
		}
		lits = appendUniqueLiteral(lits, l)
	}
	for i := 0; i < n.Len(); i++ {
		l := n.Lit(i)
		if l.Var() == v {
			continue
		}
		for _, x := range lits {
			if x == l.Negated() {
				return nil, true
			}
		}
		lits = appendUniqueLiteral(lits, l)
	}
	return lits, false
}

func appendUniqueLiteral(lits []Literal, l Literal) []Literal {
	for _, x := range lits {
		if x == l {
			return lits
		}
	}
	return append(lits, l)
}

// pushEliminationBlock appends one variable's reconstruction record: its
// own positive literal, the number of clauses removed because of it, then
// each clause's literals prefixed by its length.
func (sp *simplifier) pushEliminationBlock(v Var, clauses []CRef) {
	sp.elimStack = append(sp.elimStack, PositiveLiteral(v))
	sp.elimStack = append(sp.elimStack, Literal(len(clauses)))
	for _, cref := range clauses {
		lits := sp.s.arena.Lookup(cref).Literals()
		sp.elimStack = append(sp.elimStack, Literal(len(lits)))
		sp.elimStack = append(sp.elimStack, lits...)
	}
}

type elimBlock struct {
	v       Var
	clauses [][]Literal
}

func (sp *simplifier) parseElimBlocks() []elimBlock {
	var blocks []elimBlock
	stk := sp.elimStack
	i := 0
	for i < len(stk) {
		v := stk[i].Var()
		i++
		n := int(stk[i])
		i++
		clauses := make([][]Literal, 0, n)
		for k := 0; k < n; k++ {
			ln := int(stk[i])
			i++
			lits := append([]Literal(nil), stk[i:i+ln]...)
			i += ln
			clauses = append(clauses, lits)
		}
		blocks = append(blocks, elimBlock{v: v, clauses: clauses})
	}
	return blocks
}

// extendModel fixes the value of every eliminated variable in model, in
// reverse elimination order, so that every clause removed on its account is
// satisfied. A variable whose block forces no constraint keeps its
// zero-value default.
func (sp *simplifier) extendModel(model []bool) {
	blocks := sp.parseElimBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		for _, lits := range b.clauses {
			satisfiedByOthers := false
			var vLit Literal = LitUndef
			for _, l := range lits {
				if l.Var() == b.v {
					vLit = l
					continue
				}
				if literalTrue(model, l) {
					satisfiedByOthers = true
				}
			}
			if !satisfiedByOthers && vLit != LitUndef {
				model[b.v] = vLit.IsPositive()
				break
			}
		}
	}
}

func literalTrue(model []bool, l Literal) bool {
	if l.IsPositive() {
		return model[l.Var()]
	}
	return !model[l.Var()]
}
