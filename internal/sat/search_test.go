package sat

import (
	"math/rand"
	"testing"
)

func buildFromInts(t *testing.T, nVars int, clauses [][]int, opts Options) *Solver {
	t.Helper()
	s := NewSolver(opts)
	for i := 0; i < nVars; i++ {
		s.AddVariable()
	}
	for _, c := range clauses {
		if !s.AddClause(litsOf(c...)) {
			break
		}
	}
	return s
}

// bruteForceSat enumerates all 2^nVars assignments and reports whether any
// of them satisfies every clause.
func bruteForceSat(nVars int, clauses [][]int) bool {
	for bits := 0; bits < 1<<nVars; bits++ {
		ok := true
		for _, c := range clauses {
			satisfied := false
			for _, l := range c {
				v := l
				if v < 0 {
					v = -v
				}
				val := bits&(1<<(v-1)) != 0
				if (l > 0) == val {
					satisfied = true
					break
				}
			}
			if !satisfied {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func modelSatisfies(model []bool, clauses [][]int) bool {
	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			v := l
			if v < 0 {
				v = -v
			}
			if (l > 0) == model[v-1] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// TestSolveMatchesBruteForce cross-checks the solver against exhaustive
// enumeration on a few hundred random small instances. The generator is
// seeded, so failures reproduce.
func TestSolveMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 300; run++ {
		nVars := 1 + rng.Intn(8)
		nClauses := 1 + rng.Intn(4*nVars)
		clauses := make([][]int, nClauses)
		for i := range clauses {
			n := 1 + rng.Intn(3)
			c := make([]int, n)
			for j := range c {
				c[j] = 1 + rng.Intn(nVars)
				if rng.Intn(2) == 0 {
					c[j] = -c[j]
				}
			}
			clauses[i] = c
		}

		want := bruteForceSat(nVars, clauses)
		s := buildFromInts(t, nVars, clauses, DefaultOptions)
		got := s.Solve()

		if want && got != StatusSat {
			t.Fatalf("run %d: Solve() = %v on satisfiable instance %v", run, got, clauses)
		}
		if !want && got != StatusUnsat {
			t.Fatalf("run %d: Solve() = %v on unsatisfiable instance %v", run, got, clauses)
		}
		if got == StatusSat && !modelSatisfies(s.Model, clauses) {
			t.Fatalf("run %d: model %v does not satisfy %v", run, s.Model, clauses)
		}
	}
}

// TestSolveWithEliminationMatchesBruteForce repeats the cross-check with a
// full elimination pass before solving, exercising model extension over
// eliminated variables.
func TestSolveWithEliminationMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		nVars := 2 + rng.Intn(7)
		nClauses := 2 + rng.Intn(4*nVars)
		clauses := make([][]int, nClauses)
		for i := range clauses {
			n := 2 + rng.Intn(2)
			c := make([]int, n)
			for j := range c {
				c[j] = 1 + rng.Intn(nVars)
				if rng.Intn(2) == 0 {
					c[j] = -c[j]
				}
			}
			clauses[i] = c
		}

		want := bruteForceSat(nVars, clauses)
		s := buildFromInts(t, nVars, clauses, DefaultOptions)
		elimOK := s.Eliminate(true)
		if !elimOK {
			if want {
				t.Fatalf("run %d: Eliminate() refuted satisfiable instance %v", run, clauses)
			}
			continue
		}
		got := s.Solve()

		if want && got != StatusSat {
			t.Fatalf("run %d: Solve() = %v on satisfiable instance %v", run, got, clauses)
		}
		if !want && got != StatusUnsat {
			t.Fatalf("run %d: Solve() = %v on unsatisfiable instance %v", run, got, clauses)
		}
		if got == StatusSat && !modelSatisfies(s.Model, clauses) {
			t.Fatalf("run %d: extended model %v does not satisfy %v", run, s.Model, clauses)
		}
	}
}

// TestDeterminism checks that two runs with identical inputs and options
// produce identical statistics and models.
func TestDeterminism(t *testing.T) {
	clauses := [][]int{
		{1, 2, 3}, {-1, 2}, {-2, 3}, {-3, 4, 5}, {-4, -5},
		{1, -3, 5}, {-1, -2, -5}, {2, 4, -5}, {-2, -4, 5},
	}

	s1 := buildFromInts(t, 5, clauses, DefaultOptions)
	s2 := buildFromInts(t, 5, clauses, DefaultOptions)

	st1, st2 := s1.Solve(), s2.Solve()
	if st1 != st2 {
		t.Fatalf("statuses differ: %v vs %v", st1, st2)
	}
	if s1.Stats.Conflicts != s2.Stats.Conflicts {
		t.Errorf("conflict counts differ: %d vs %d", s1.Stats.Conflicts, s2.Stats.Conflicts)
	}
	if st1 == StatusSat {
		for v := range s1.Model {
			if s1.Model[v] != s2.Model[v] {
				t.Errorf("models differ at variable %d", v)
			}
		}
	}
}

// TestContradictoryAssumptions checks the final-conflict extraction when
// the assumption list is itself inconsistent.
func TestContradictoryAssumptions(t *testing.T) {
	s := buildFromInts(t, 2, [][]int{{1, 2}}, DefaultOptions)

	assumptions := litsOf(1, -1)
	if got := s.SolveLimited(assumptions); got != StatusUnsat {
		t.Fatalf("SolveLimited({1,-1}) = %v, want StatusUnsat", got)
	}
	if len(s.Conflict) == 0 {
		t.Fatalf("Conflict is empty after an assumption conflict")
	}
	allowed := map[Literal]bool{litsOf(1)[0]: true, litsOf(-1)[0]: true}
	for _, l := range s.Conflict {
		if !allowed[l] {
			t.Errorf("Conflict literal %v outside assumption set {1,-1}", l)
		}
	}

	// The solver must remain usable: the same instance without
	// assumptions is satisfiable.
	if got := s.Solve(); got != StatusSat {
		t.Errorf("Solve() after assumption conflict = %v, want StatusSat", got)
	}
}

// TestAssumptionsGuideModel checks that consistent assumptions are honored
// by the reported model.
func TestAssumptionsGuideModel(t *testing.T) {
	s := buildFromInts(t, 3, [][]int{{1, 2, 3}}, DefaultOptions)

	if got := s.SolveLimited(litsOf(-1, -2)); got != StatusSat {
		t.Fatalf("SolveLimited({-1,-2}) = %v, want StatusSat", got)
	}
	if s.Model[0] || s.Model[1] {
		t.Errorf("model %v violates assumptions {-1,-2}", s.Model)
	}
	if !s.Model[2] {
		t.Errorf("model %v does not satisfy the only clause", s.Model)
	}
}

// TestInterruptReturnsUnknown checks the cooperative interrupt path.
func TestInterruptReturnsUnknown(t *testing.T) {
	s := buildFromInts(t, 3, [][]int{{1, 2}, {-1, 3}}, DefaultOptions)
	s.AsynchInterrupt.Set()

	if got := s.Solve(); got != StatusUnknown {
		t.Fatalf("Solve() = %v with the interrupt flag raised, want StatusUnknown", got)
	}

	s.AsynchInterrupt.Clear()
	if got := s.Solve(); got != StatusSat {
		t.Errorf("Solve() = %v after clearing the interrupt, want StatusSat", got)
	}
}

// TestConflictBudgetReturnsUnknown checks the conflict resource limit.
func TestConflictBudgetReturnsUnknown(t *testing.T) {
	opts := DefaultOptions
	opts.MaxConflicts = 1

	// PHP(3,2): needs more than one conflict to refute.
	v := func(i, j int) int { return (i-1)*2 + j }
	var clauses [][]int
	for i := 1; i <= 3; i++ {
		clauses = append(clauses, []int{v(i, 1), v(i, 2)})
	}
	for j := 1; j <= 2; j++ {
		for i1 := 1; i1 <= 3; i1++ {
			for i2 := i1 + 1; i2 <= 3; i2++ {
				clauses = append(clauses, []int{-v(i1, j), -v(i2, j)})
			}
		}
	}

	s := buildFromInts(t, 6, clauses, opts)
	if got := s.Solve(); got != StatusUnknown {
		t.Errorf("Solve() = %v with MaxConflicts=1, want StatusUnknown", got)
	}
}

// TestTautologyIsIgnored checks that a clause containing complementary
// literals behaves as if it were absent.
func TestTautologyIsIgnored(t *testing.T) {
	withTaut := buildFromInts(t, 2, [][]int{{1, -1, 2}, {-2, 1}}, DefaultOptions)
	without := buildFromInts(t, 2, [][]int{{-2, 1}}, DefaultOptions)

	if withTaut.NumConstraints() != without.NumConstraints() {
		t.Errorf("constraint counts differ: %d vs %d",
			withTaut.NumConstraints(), without.NumConstraints())
	}
	if g1, g2 := withTaut.Solve(), without.Solve(); g1 != g2 {
		t.Errorf("statuses differ: %v vs %v", g1, g2)
	}
}
