package sat

import "testing"

func TestVarOrderInsertPopInActivityOrder(t *testing.T) {
	vo := newVarOrder(0.95, true)
	for i := 0; i < 3; i++ {
		vo.addVar(0, false)
		vo.insert(Var(i))
	}

	// Bump 1 twice and 2 once, so activity order is 1 > 2 > 0.
	vo.bump(1)
	vo.bump(1)
	vo.bump(2)

	var got []Var
	for {
		v, ok := vo.popVar()
		if !ok {
			break
		}
		got = append(got, v)
	}

	want := []Var{1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("popVar() sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("popVar() sequence = %v, want %v", got, want)
		}
	}
}

func TestVarOrderContains(t *testing.T) {
	vo := newVarOrder(0.95, true)
	vo.addVar(0, false)
	if vo.contains(0) {
		t.Errorf("contains(0) = true before insert, want false")
	}
	vo.insert(0)
	if !vo.contains(0) {
		t.Errorf("contains(0) = false after insert, want true")
	}
	vo.popVar()
	if vo.contains(0) {
		t.Errorf("contains(0) = true after popVar, want false")
	}
}

func TestVarOrderPhaseSaving(t *testing.T) {
	vo := newVarOrder(0.95, true)
	vo.addVar(0, true) // initial phase: true
	if got := vo.phaseOf(0); got != True {
		t.Fatalf("phaseOf(0) = %v, want True", got)
	}
	vo.savePhase(0, False)
	if got := vo.phaseOf(0); got != False {
		t.Errorf("phaseOf(0) after savePhase(False) = %v, want False", got)
	}
}

func TestVarOrderPhaseSavingDisabled(t *testing.T) {
	vo := newVarOrder(0.95, false)
	vo.addVar(0, true)
	vo.savePhase(0, False)
	if got := vo.phaseOf(0); got != True {
		t.Errorf("phaseOf(0) = %v after savePhase with phaseSaving disabled, want unchanged True", got)
	}
}

func TestVarOrderRescaleOnOverflow(t *testing.T) {
	vo := newVarOrder(0.95, true)
	vo.addVar(0, false)
	vo.insert(0)

	vo.scoreInc = 2e100
	vo.bump(0)

	if vo.scoreInc > 1e100 {
		t.Errorf("scoreInc = %v after rescale, want <= 1e100", vo.scoreInc)
	}
	if !vo.contains(0) {
		t.Errorf("contains(0) = false after rescale, the heap entry should survive")
	}
}
