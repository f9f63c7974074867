package wfc

import "testing"

func TestAllPatterns(t *testing.T) {
	cases := []struct {
		n     int
		count int
	}{
		{1, 1},
		{63, 63},
		{64, 64},
		{65, 65},
		{100, 100},
		{128, 128},
	}
	for _, c := range cases {
		b := AllPatterns(c.n)
		if b.Count() != c.count {
			t.Errorf("Expected AllPatterns(%d) to hold %d, got %d", c.n, c.count, b.Count())
		}
		if b.Has(c.n) {
			t.Errorf("Expected AllPatterns(%d) to exclude bit %d", c.n, c.n)
		}
		if !b.Has(c.n - 1) {
			t.Errorf("Expected AllPatterns(%d) to include bit %d", c.n, c.n-1)
		}
	}
}

func TestSetClearAcrossWords(t *testing.T) {
	var b Bitset128
	b.Set(3)
	b.Set(70)
	b.Set(127)

	if b.Count() != 3 {
		t.Errorf("Expected 3 patterns, got %d", b.Count())
	}
	if !b.Has(70) {
		t.Error("Expected bit 70 set")
	}

	b.Clear(70)
	if b.Has(70) {
		t.Error("Expected bit 70 cleared")
	}
	if b.Count() != 2 {
		t.Errorf("Expected 2 patterns after clear, got %d", b.Count())
	}
}

func TestNth(t *testing.T) {
	var b Bitset128
	for _, i := range []int{2, 5, 64, 90, 127} {
		b.Set(i)
	}

	want := []int{2, 5, 64, 90, 127}
	for k, expected := range want {
		if got := b.Nth(k); got != expected {
			t.Errorf("Expected Nth(%d) = %d, got %d", k, expected, got)
		}
	}
	if got := b.Nth(5); got != -1 {
		t.Errorf("Expected Nth past the end to return -1, got %d", got)
	}
}

func TestPatternsOrder(t *testing.T) {
	b := Single(100).Or(Single(7)).Or(Single(63))
	got := b.Patterns()
	want := []int{7, 63, 100}
	if len(got) != len(want) {
		t.Fatalf("Expected %d patterns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected pattern %d at position %d, got %d", want[i], i, got[i])
		}
	}
}

func TestIntersection(t *testing.T) {
	a := AllPatterns(10)
	b := Single(3).Or(Single(9)).Or(Single(50))

	both := a.And(b)
	if both.Count() != 2 || !both.Has(3) || !both.Has(9) {
		t.Errorf("Expected intersection {3, 9}, got %v", both.Patterns())
	}
	if !a.And(Single(120)).IsZero() {
		t.Error("Expected disjoint intersection to be empty")
	}
}
