package sat

import "testing"

func TestPositiveNegativeLiteral(t *testing.T) {
	v := Var(5)
	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)

	if !pos.IsPositive() {
		t.Errorf("PositiveLiteral(%d).IsPositive() = false, want true", v)
	}
	if neg.IsPositive() {
		t.Errorf("NegativeLiteral(%d).IsPositive() = true, want false", v)
	}
	if pos.Var() != v || neg.Var() != v {
		t.Errorf("Var() = %d/%d, want %d", pos.Var(), neg.Var(), v)
	}
	if pos.Negated() != neg || neg.Negated() != pos {
		t.Errorf("Negated() did not round-trip between %v and %v", pos, neg)
	}
}

func TestMkLit(t *testing.T) {
	v := Var(3)
	if got, want := MkLit(v, false), PositiveLiteral(v); got != want {
		t.Errorf("MkLit(%d, false) = %v, want %v", v, got, want)
	}
	if got, want := MkLit(v, true), NegativeLiteral(v); got != want {
		t.Errorf("MkLit(%d, true) = %v, want %v", v, got, want)
	}
}

func TestLiteralString(t *testing.T) {
	v := Var(7)
	if got, want := PositiveLiteral(v).String(), "7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := NegativeLiteral(v).String(), "-7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLitHashRange(t *testing.T) {
	for v := Var(0); v < 64; v++ {
		for _, l := range []Literal{PositiveLiteral(v), NegativeLiteral(v)} {
			if h := litHash(l); h > 31 {
				t.Errorf("litHash(%v) = %d, want <= 31", l, h)
			}
		}
	}
}
