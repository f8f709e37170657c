package sat

import "testing"

func TestLubyRestartSequence(t *testing.T) {
	// The standard Luby sequence (y=2): 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,...
	r := newLubyRestart(1, 2)
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}

	for i, w := range want {
		if got := r.next(); got != w {
			t.Errorf("next() call #%d = %d, want %d", i+1, got, w)
		}
	}
}

func TestLubyRestartFirstScalesBudget(t *testing.T) {
	r := newLubyRestart(100, 2)
	if got, want := r.next(), int64(100); got != want {
		t.Errorf("next() = %d, want %d", got, want)
	}
}

func TestGeometricRestartGrows(t *testing.T) {
	r := newGeometricRestart(100, 2)

	if got, want := r.next(), int64(100); got != want {
		t.Errorf("next() call #1 = %d, want %d", got, want)
	}
	if got, want := r.next(), int64(200); got != want {
		t.Errorf("next() call #2 = %d, want %d", got, want)
	}
	if got, want := r.next(), int64(400); got != want {
		t.Errorf("next() call #3 = %d, want %d", got, want)
	}
}
