package styles

import "testing"

func TestRound(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{3.14159, 3.14},
		{0.123, 0.12},
		{0.129, 0.13},
		{-2.718, -2.72},
		{1234.5678, 1234.57},
	}
	for _, c := range cases {
		if got := Round(c.in); got != c.want {
			t.Errorf("Round(%v) = %v, want %v", c.in, got, c.want)
		}
		// rounding an already rounded value must be a no-op
		if got := Round(Round(c.in)); got != c.want {
			t.Errorf("Round(Round(%v)) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNum(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{1.5, "1.5"},
		{1.25, "1.25"},
		{1.256, "1.26"},
		{100, "100"},
		{-3.5, "-3.5"},
		{-0.0001, "0"}, // negative zero must not leak a sign
	}
	for _, c := range cases {
		if got := num(c.in); got != c.want {
			t.Errorf("num(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUnits(t *testing.T) {
	if got := px(12.5); got != "12.5px" {
		t.Errorf("px(12.5) = %q", got)
	}
	if got := px(0); got != "0px" {
		t.Errorf("px(0) = %q", got)
	}
	if got := pct(33.333); got != "33.33%" {
		t.Errorf("pct(33.333) = %q", got)
	}
	if got := deg(-45); got != "-45deg" {
		t.Errorf("deg(-45) = %q", got)
	}
}

func TestMs(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0.3, "300ms"},
		{0.25, "250ms"},
		{1, "1000ms"},
		{0.0004, "0ms"},
		{2.5, "2500ms"},
	}
	for _, c := range cases {
		if got := ms(c.seconds); got != c.want {
			t.Errorf("ms(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}
