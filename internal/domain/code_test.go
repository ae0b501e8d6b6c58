package domain

import (
	"strings"
	"testing"
)

func TestAllocateFormat(t *testing.T) {
	alloc := NewCodeAllocator()
	never := func(RoomCode) bool { return false }

	for i := 0; i < 500; i++ {
		code := alloc.Allocate(never)
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for _, ch := range string(code) {
			if !strings.ContainsRune(CodeAlphabet, ch) {
				t.Fatalf("code %q contains %q, not in alphabet", code, ch)
			}
		}
	}
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	alloc := NewCodeAllocator()

	attempts := 0
	code := alloc.Allocate(func(RoomCode) bool {
		attempts++
		return attempts <= 3
	})

	if attempts != 4 {
		t.Errorf("expected 4 sampling attempts, got %d", attempts)
	}
	if !ValidCode(string(code)) {
		t.Errorf("allocated code %q is not valid", code)
	}
}

func TestValidCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"BCDFG", true},
		{"ZZZZZ", true},
		{"bcdfg", false}, // callers normalize case first
		{"ABCDE", false}, // vowel
		{"BCDF", false},
		{"BCDFGH", false},
		{"BCD1G", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidCode(tc.code); got != tc.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
