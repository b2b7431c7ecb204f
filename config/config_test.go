package config

import "testing"

func TestNormalizePort(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8080", ":8080"},
		{":8080", ":8080"},
		{"0.0.0.0:8080", "0.0.0.0:8080"},
		{"localhost:8080", "localhost:8080"},
	}
	for _, c := range cases {
		if got := normalizePort(c.in); got != c.want {
			t.Fatalf("normalizePort(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}
