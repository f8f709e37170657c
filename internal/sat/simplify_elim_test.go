package sat

import "testing"

func litsOf(ints ...int) []Literal {
	out := make([]Literal, len(ints))
	for i, l := range ints {
		if l < 0 {
			out[i] = NegativeLiteral(Var(-l - 1))
		} else {
			out[i] = PositiveLiteral(Var(l - 1))
		}
	}
	return out
}

func allocClause(t *testing.T, a *ClauseAllocator, ints ...int) Clause {
	t.Helper()
	return a.Lookup(a.Alloc(litsOf(ints...), false))
}

func TestSubsumeCheck(t *testing.T) {
	tests := []struct {
		name       string
		c, d       []int
		subsumed   bool
		strengthen int // 0 if none; otherwise the literal to drop from d
	}{
		{
			name:     "strict subset subsumes",
			c:        []int{1, 2},
			d:        []int{1, 2, 3},
			subsumed: true,
		},
		{
			name:     "equal clauses subsume",
			c:        []int{1, -2},
			d:        []int{-2, 1},
			subsumed: true,
		},
		{
			name:       "one flipped literal strengthens",
			c:          []int{1, 2},
			d:          []int{-1, 2, 3},
			strengthen: -1,
		},
		{
			name: "two flipped literals do nothing",
			c:    []int{1, 2},
			d:    []int{-1, -2, 3},
		},
		{
			name: "missing literal does nothing",
			c:    []int{1, 4},
			d:    []int{1, 2, 3},
		},
		{
			name: "longer clause never subsumes shorter",
			c:    []int{1, 2, 3},
			d:    []int{1, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewClauseAllocator(0)
			c := allocClause(t, a, tc.c...)
			d := allocClause(t, a, tc.d...)

			subsumed, remove := subsumeCheck(c, d)
			if subsumed != tc.subsumed {
				t.Errorf("subsumeCheck() subsumed = %v, want %v", subsumed, tc.subsumed)
			}
			want := LitUndef
			if tc.strengthen != 0 {
				want = litsOf(tc.strengthen)[0]
			}
			if remove != want {
				t.Errorf("subsumeCheck() remove = %v, want %v", remove, want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	a := NewClauseAllocator(0)

	t.Run("merges and drops the pivot", func(t *testing.T) {
		p := allocClause(t, a, 1, 2)
		n := allocClause(t, a, -1, 3)
		lits, taut := resolve(p, n, 0)
		if taut {
			t.Fatalf("resolve() tautology = true, want false")
		}
		want := litsOf(2, 3)
		if len(lits) != len(want) {
			t.Fatalf("resolve() = %v, want %v", lits, want)
		}
		for i := range want {
			if lits[i] != want[i] {
				t.Errorf("resolve() = %v, want %v", lits, want)
			}
		}
	})

	t.Run("deduplicates shared literals", func(t *testing.T) {
		p := allocClause(t, a, 1, 2)
		n := allocClause(t, a, -1, 2)
		lits, taut := resolve(p, n, 0)
		if taut || len(lits) != 1 || lits[0] != litsOf(2)[0] {
			t.Errorf("resolve() = %v (taut=%v), want [2]", lits, taut)
		}
	})

	t.Run("detects tautological resolvents", func(t *testing.T) {
		p := allocClause(t, a, 1, 2)
		n := allocClause(t, a, -1, -2)
		if _, taut := resolve(p, n, 0); !taut {
			t.Errorf("resolve() tautology = false, want true")
		}
	})
}

// TestEliminatePreservesSatisfiability runs the simplifier on a small
// instance and checks that the extended model still satisfies every
// original clause, including clauses removed by variable elimination.
func TestEliminatePreservesSatisfiability(t *testing.T) {
	clauses := [][]int{
		{1, 2},
		{-1, 3},
		{-2, -3, 4},
		{2, -4},
	}

	s := NewDefaultSolver()
	for i := 0; i < 4; i++ {
		s.AddVariable()
	}
	for _, c := range clauses {
		if !s.AddClause(litsOf(c...)) {
			t.Fatalf("AddClause(%v) = false, want true", c)
		}
	}

	if !s.Eliminate(true) {
		t.Fatalf("Eliminate() = false, want true (instance is satisfiable)")
	}
	if got := s.Solve(); got != StatusSat {
		t.Fatalf("Solve() = %v, want StatusSat", got)
	}

	for _, c := range clauses {
		sat := false
		for _, l := range litsOf(c...) {
			if s.Model[l.Var()] == l.IsPositive() {
				sat = true
				break
			}
		}
		if !sat {
			t.Errorf("model %v does not satisfy original clause %v", s.Model, c)
		}
	}
}

// TestEliminateDetectsUnsat checks that elimination alone can refute an
// unsatisfiable instance without ever entering search.
func TestEliminateDetectsUnsat(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 2; i++ {
		s.AddVariable()
	}
	for _, c := range [][]int{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}} {
		if !s.AddClause(litsOf(c...)) {
			t.Fatalf("AddClause(%v) = false before any conflict was derivable", c)
		}
	}

	if s.Eliminate(true) {
		t.Errorf("Eliminate() = true on an unsatisfiable instance, want false")
	}
	if got := s.Solve(); got != StatusUnsat {
		t.Errorf("Solve() = %v, want StatusUnsat", got)
	}
}

// TestEliminateSkipsFrozenVariables pins a variable with Freeze and checks
// it survives a full elimination pass.
func TestEliminateSkipsFrozenVariables(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	s.Freeze(0)
	for _, c := range [][]int{{1, 2}, {-1, 3}} {
		s.AddClause(litsOf(c...))
	}

	if !s.Eliminate(false) {
		t.Fatalf("Eliminate() = false, want true")
	}
	if s.vars[0].eliminated {
		t.Errorf("variable 0 was eliminated despite Freeze")
	}
}

func TestBackwardSubsumptionRemovesSubsumedClause(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	s.AddClause(litsOf(1, 2, 3))
	s.AddClause(litsOf(1, 2))

	if !s.simp.backwardSubsumptionCheck() {
		t.Fatalf("backwardSubsumptionCheck() = false, want true")
	}

	live := 0
	for _, cref := range s.constraints {
		if s.arena.Lookup(cref).Mark() != 1 {
			live++
		}
	}
	if live != 1 {
		t.Errorf("got %d live constraints after subsumption, want 1", live)
	}
}

// TestSelfSubsumingResolutionStrengthens checks that {1,2} strengthens
// {-1,2,3} to {2,3}.
func TestSelfSubsumingResolutionStrengthens(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.AddVariable()
	}
	s.AddClause(litsOf(-1, 2, 3))
	s.AddClause(litsOf(1, 2))

	if !s.simp.backwardSubsumptionCheck() {
		t.Fatalf("backwardSubsumptionCheck() = false, want true")
	}

	var strengthened Clause
	found := false
	for _, cref := range s.constraints {
		c := s.arena.Lookup(cref)
		if c.Mark() == 1 {
			continue
		}
		if c.Len() == 2 && c.Lit(0) != litsOf(1)[0] {
			strengthened, found = c, true
		}
	}
	if !found {
		t.Fatalf("no strengthened clause found among constraints")
	}
	got := map[Literal]bool{}
	for _, l := range strengthened.Literals() {
		got[l] = true
	}
	for _, l := range litsOf(2, 3) {
		if !got[l] {
			t.Errorf("strengthened clause = %v, want literals {2 3}", strengthened.Literals())
		}
	}
}
