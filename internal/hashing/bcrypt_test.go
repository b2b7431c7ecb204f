package hashing

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptCompare(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if !h.Compare(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if h.Compare(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
	if h.Compare("not-a-bcrypt-hash", "s3cret") {
		t.Fatal("malformed hash compared as a match")
	}
}

func TestBcryptCostFallback(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{99, bcrypt.DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
	}
	for _, c := range cases {
		hash, err := NewBcrypt(c.in).Hash("pw")
		if err != nil {
			t.Fatalf("hash at cost %d: %v", c.in, err)
		}
		got, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			t.Fatalf("cost of hash: %v", err)
		}
		if got != c.want {
			t.Fatalf("cost %d: expected effective cost %d, got %d", c.in, c.want, got)
		}
	}
}
