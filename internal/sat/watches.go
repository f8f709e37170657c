package sat

// watcher represents a clause attached to the watch list of a literal: the
// blocker is some literal of the clause
// other than the watched one, cached here so propagation can often skip
// dereferencing the clause entirely when the blocker is already true.
type watcher struct {
	cref    CRef
	blocker Literal
}

// watches holds, for every literal, the clauses currently watching it.
type watches struct {
	lists [][]watcher
}

func newWatches() *watches {
	return &watches{}
}

func (w *watches) growTo(nLits int) {
	for len(w.lists) < nLits {
		w.lists = append(w.lists, nil)
	}
}

// attach registers cref to be woken up when l becomes true, with guard as
// the cached blocker literal.
func (w *watches) attach(l Literal, cref CRef, guard Literal) {
	w.lists[l.index()] = append(w.lists[l.index()], watcher{cref: cref, blocker: guard})
}

// detach removes cref from l's watch list.
func (w *watches) detach(l Literal, cref CRef) {
	ws := w.lists[l.index()]
	j := 0
	for i := range ws {
		if ws[i].cref != cref {
			ws[j] = ws[i]
			j++
		}
	}
	w.lists[l.index()] = ws[:j]
}

func (w *watches) relocAll(from, to *ClauseAllocator) {
	for i := range w.lists {
		ws := w.lists[i]
		for j := range ws {
			reloc(&ws[j].cref, from, to)
		}
	}
}
