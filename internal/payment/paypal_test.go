package payment

import "testing"

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{100, "1.00"},
		{12345, "123.45"},
		{1000000, "10000.00"},
		{-5, "-0.05"},
		{-12345, "-123.45"},
	}
	for _, c := range cases {
		if got := FormatDecimal(c.cents); got != c.want {
			t.Errorf("FormatDecimal(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}
