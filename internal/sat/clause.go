package sat

import (
	"math"
	"strings"
)

// Clause is a lightweight view over a clause record living inside a
// ClauseAllocator. It is valid only until the next relocAll on the same
// allocator: no component may cache a Clause across a GC, only its CRef.
type Clause struct {
	a   *ClauseAllocator
	ref CRef
}

// Ref returns the handle this view was created from.
func (c Clause) Ref() CRef { return c.ref }

// Len returns the clause's literal count.
func (c Clause) Len() int { return c.a.length(c.ref) }

// Learnt reports whether the clause was derived by conflict analysis.
func (c Clause) Learnt() bool { return c.a.header(c.ref)&flagLearnt != 0 }

func (c Clause) hasExtra() bool { return c.a.header(c.ref)&flagHasExtra != 0 }

// Mark returns the clause's ephemeral 2-bit tag.
func (c Clause) Mark() uint32 { return (c.a.header(c.ref) & markMask) >> 3 }

// SetMark sets the clause's ephemeral 2-bit tag.
func (c Clause) SetMark(m uint32) {
	h := c.a.header(c.ref)
	c.a.setHeader(c.ref, (h&^markMask)|((m<<3)&markMask))
}

func (c Clause) litOffset(i int) CRef { return c.ref + CRef(clauseHeaderWords+i) }

// Lit returns the clause's i-th literal.
func (c Clause) Lit(i int) Literal {
	return Literal(c.a.buf[c.litOffset(i)])
}

// SetLit overwrites the clause's i-th literal.
func (c Clause) SetLit(i int, l Literal) {
	c.a.buf[c.litOffset(i)] = int32(l)
}

// Swap exchanges the clause's i-th and j-th literals.
func (c Clause) Swap(i, j int) {
	oi, oj := c.litOffset(i), c.litOffset(j)
	c.a.buf[oi], c.a.buf[oj] = c.a.buf[oj], c.a.buf[oi]
}

// Literals returns the clause's literals as a fresh slice (for callers that
// need to retain them, e.g. the simplifier's resolvent construction).
func (c Clause) Literals() []Literal {
	n := c.Len()
	out := make([]Literal, n)
	for i := 0; i < n; i++ {
		out[i] = c.Lit(i)
	}
	return out
}

func (c Clause) extraOffset() CRef {
	return c.ref + CRef(clauseHeaderWords+c.Len())
}

// Abstraction returns the clause's 32-bit literal-set hash, used as a cheap
// subsumption pre-filter. Only stored for clauses allocated with hasExtra;
// recomputed on the fly otherwise.
func (c Clause) Abstraction() uint32 {
	if !c.hasExtra() {
		return abstraction(c.Literals())
	}
	return uint32(c.a.buf[c.extraOffset()])
}

// RefreshAbstraction recomputes the abstraction word after the clause's
// literal set changed (e.g. strengthening by self-subsuming resolution).
func (c Clause) RefreshAbstraction() {
	if !c.hasExtra() {
		return
	}
	c.a.buf[c.extraOffset()] = int32(abstraction(c.Literals()))
}

// Activity returns the clause's learnt-clause activity. Zero for non-learnt
// clauses.
func (c Clause) Activity() float64 {
	if !c.hasExtra() {
		return 0
	}
	return float64(math.Float32frombits(uint32(c.a.buf[c.extraOffset()+1])))
}

// SetActivity overwrites the clause's activity.
func (c Clause) SetActivity(v float64) {
	if !c.hasExtra() {
		return
	}
	c.a.buf[c.extraOffset()+1] = int32(math.Float32bits(float32(v)))
}

// Shrink truncates the clause to its first n literals in place (used by
// self-subsuming resolution and top-level simplification to drop falsified
// or redundant literals without reallocating). The extra words (abstraction,
// activity), which always sit immediately after the literal run, are moved
// down to stay contiguous with the new, shorter run.
func (c Clause) Shrink(n int) {
	hasExtra := c.hasExtra()
	old := c.extraOffset() // position of the extra words before truncation
	c.a.setLength(c.ref, n)
	if hasExtra {
		newExtra := c.extraOffset() // position they must occupy now
		c.a.buf[newExtra] = c.a.buf[old]
		c.a.buf[newExtra+1] = c.a.buf[old+1]
	}
}

// locked reports whether the clause is currently the reason some assigned
// variable was propagated, and therefore must not be removed.
func locked(s *Solver, ref CRef) bool {
	c := s.arena.Lookup(ref)
	if c.Len() == 0 {
		return false
	}
	v := c.Lit(0).Var()
	return s.assigned(v) && s.vars[v].reason == ref
}

func (c Clause) String() string {
	n := c.Len()
	if n == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.Lit(0).String())
	for i := 1; i < n; i++ {
		sb.WriteByte(' ')
		sb.WriteString(c.Lit(i).String())
	}
	sb.WriteByte(']')
	return sb.String()
}
