package fixedpoint

import "testing"

func TestFromIntToIntTrunc(t *testing.T) {
	for _, n := range []int{0, 1, -1, 63, -63, 1000, -1000} {
		if got := FromInt(n).ToIntTrunc(); got != n {
			t.Errorf("FromInt(%d).ToIntTrunc() = %d, want %d", n, got, n)
		}
	}
}

func TestToIntRound(t *testing.T) {
	cases := []struct {
		name string
		x    Fixed
		want int
	}{
		{"exact positive", FromInt(5), 5},
		{"exact negative", FromInt(-5), -5},
		{"half up rounds away from zero", FromInt(5).Add(Fixed(one / 2)), 6},
		{"half down rounds away from zero", FromInt(-5).Sub(Fixed(one / 2)), -6},
		{"just under half rounds down", FromInt(5).Add(Fixed(one/2 - 1)), 5},
		{"zero", Zero, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.x.ToIntRound(); got != c.want {
				t.Errorf("ToIntRound() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestAddSub(t *testing.T) {
	a := FromInt(3)
	b := FromInt(2)
	if got := a.Add(b).ToIntTrunc(); got != 5 {
		t.Errorf("Add: got %d, want 5", got)
	}
	if got := a.Sub(b).ToIntTrunc(); got != 1 {
		t.Errorf("Sub: got %d, want 1", got)
	}
}

func TestMulDiv(t *testing.T) {
	a := FromInt(10)
	b := FromInt(4)
	if got := a.Mul(b).ToIntTrunc(); got != 40 {
		t.Errorf("Mul: got %d, want 40", got)
	}
	if got := a.Div(b).ToIntRound(); got != 3 {
		// 10/4 = 2.5, rounds away from zero to 3
		t.Errorf("Div: got %d, want 3", got)
	}
}

func TestMixedIntOps(t *testing.T) {
	a := FromInt(10)
	if got := a.AddInt(5).ToIntTrunc(); got != 15 {
		t.Errorf("AddInt: got %d, want 15", got)
	}
	if got := a.SubInt(5).ToIntTrunc(); got != 5 {
		t.Errorf("SubInt: got %d, want 5", got)
	}
	if got := a.MulInt(3).ToIntTrunc(); got != 30 {
		t.Errorf("MulInt: got %d, want 30", got)
	}
	if got := a.DivInt(2).ToIntTrunc(); got != 5 {
		t.Errorf("DivInt: got %d, want 5", got)
	}
}

func TestLoadAvgRecurrence(t *testing.T) {
	// load_avg = (59/60)*load_avg + (1/60)*ready_count, starting at 0 with
	// a constant ready_count of 1 should monotonically increase.
	fiftyNineSixtieths := FromInt(59).Div(FromInt(60))
	oneSixtieth := FromInt(1).Div(FromInt(60))
	loadAvg := Zero
	prev := Zero
	for i := 0; i < 10; i++ {
		loadAvg = fiftyNineSixtieths.Mul(loadAvg).Add(oneSixtieth.Mul(FromInt(1)))
		if loadAvg < prev {
			t.Fatalf("iteration %d: load_avg decreased: %d < %d", i, loadAvg, prev)
		}
		prev = loadAvg
	}
}
