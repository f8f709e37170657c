package sat

import "fmt"

// CRef is a 32-bit offset into a ClauseAllocator's backing buffer. It is the
// only handle by which the rest of the solver ever refers to a clause: no
// component is allowed to keep a raw pointer into the arena across a
// relocAll, since compaction moves every live clause.
type CRef uint32

// CRefUndef is the reserved sentinel meaning "no clause" (e.g. the reason of
// a decision literal).
const CRefUndef CRef = 0xFFFFFFFF

// clause header flags, packed into the first header word alongside the
// clause length.
const (
	flagLearnt   uint32 = 1 << 0
	flagHasExtra uint32 = 1 << 1
	flagReloced  uint32 = 1 << 2
)

const markMask uint32 = 0b11 << 3 // 2-bit ephemeral mark, 0..3

// clauseHeaderWords is the number of int32 words occupied by a clause's
// header (length+flags). Literals follow immediately; a clause with extra
// fields stores its abstraction and activity words after the literals.
const clauseHeaderWords = 1

// ClauseAllocator is a bump-pointer region allocator producing compact,
// relocatable clause records addressed by CRef: one contiguous []int32 buffer, grown
// geometrically, compacted via relocAll when enough freed space accumulates.
type ClauseAllocator struct {
	buf    []int32
	wasted int // words made available by free() but not yet reclaimed
}

// NewClauseAllocator returns an allocator with the given initial capacity in
// words.
func NewClauseAllocator(capWords int) *ClauseAllocator {
	if capWords <= 0 {
		capWords = 1024
	}
	return &ClauseAllocator{buf: make([]int32, 0, capWords)}
}

// Wasted returns the number of words freed but not yet reclaimed by a GC.
func (a *ClauseAllocator) Wasted() int { return a.wasted }

// Cap returns the allocator's current capacity in words.
func (a *ClauseAllocator) Cap() int { return cap(a.buf) }

// wordsFor returns the number of int32 words a clause of the given length
// occupies, including its header and (if learnt) its extra fields.
func wordsFor(numLits int, learnt bool) int {
	w := clauseHeaderWords + numLits
	if learnt {
		w += 2 // abstraction word + activity (stored as its bit pattern)
	}
	return w
}

// Alloc writes a new clause into the arena and returns its CRef. literals is
// copied. Only learnt clauses get the abstraction word and an activity slot;
// a non-learnt clause's abstraction is recomputed on demand by
// Clause.Abstraction.
func (a *ClauseAllocator) Alloc(literals []Literal, learnt bool) CRef {
	n := len(literals)
	ref := CRef(len(a.buf))

	header := uint32(n) << 8
	if learnt {
		header |= flagLearnt | flagHasExtra
	}
	a.buf = append(a.buf, int32(header))
	for _, l := range literals {
		a.buf = append(a.buf, int32(l))
	}
	if learnt {
		a.buf = append(a.buf, int32(abstraction(literals)))
		a.buf = append(a.buf, 0) // activity, as float32 bits
	}
	return ref
}

// Lookup returns a Clause view over the record at ref. The view aliases the
// allocator's backing array directly; it must not be retained across a
// relocAll.
func (a *ClauseAllocator) Lookup(ref CRef) Clause {
	return Clause{a: a, ref: ref}
}

func (a *ClauseAllocator) header(ref CRef) uint32 { return uint32(a.buf[ref]) }

func (a *ClauseAllocator) setHeader(ref CRef, h uint32) { a.buf[ref] = int32(h) }

func (a *ClauseAllocator) length(ref CRef) int { return int(a.header(ref) >> 8) }

func (a *ClauseAllocator) setLength(ref CRef, n int) {
	h := a.header(ref)
	a.setHeader(ref, (h&0xFF)|(uint32(n)<<8))
}

// Free marks a clause's words as reclaimable. The words themselves are not
// overwritten; relocAll is what actually reclaims the space.
func (a *ClauseAllocator) Free(ref CRef, learnt bool) {
	n := a.length(ref)
	a.wasted += wordsFor(n, learnt)
}

// ShouldGC reports whether the fraction of wasted words has crossed gcFrac.
func (a *ClauseAllocator) ShouldGC(gcFrac float64) bool {
	if len(a.buf) == 0 {
		return false
	}
	return float64(a.wasted)*100 > float64(len(a.buf))*gcFrac*100
}

// abstraction computes the 32-bit literal-set hash used as a cheap
// subsumption pre-filter.
func abstraction(literals []Literal) uint32 {
	var abs uint32
	for _, l := range literals {
		abs |= 1 << litHash(l)
	}
	return abs
}

// relocTarget is implemented by every component that holds CRefs and must
// rewrite them after a relocAll.
type relocTarget interface {
	relocAll(from, to *ClauseAllocator)
}

// reloc copies *ref's clause into `to` if it hasn't been relocated yet
// (detected via flagReloced, whose payload word then holds the forwarding
// CRef), and rewrites *ref to point into `to`.
func reloc(ref *CRef, from, to *ClauseAllocator) {
	if *ref == CRefUndef {
		return
	}
	h := from.header(*ref)
	if h&flagReloced != 0 {
		// Forwarding pointer stored in the word immediately after the header.
		*ref = CRef(from.buf[*ref+1])
		return
	}

	n := from.length(*ref)
	learnt := h&flagLearnt != 0
	newRef := CRef(len(to.buf))
	to.buf = append(to.buf, from.buf[*ref:*ref+CRef(wordsFor(n, learnt))]...)

	from.setHeader(*ref, h|flagReloced)
	from.buf[*ref+1] = int32(newRef)

	*ref = newRef
}

func (a *ClauseAllocator) String() string {
	return fmt.Sprintf("ClauseAllocator{words=%d cap=%d wasted=%d}", len(a.buf), cap(a.buf), a.wasted)
}
