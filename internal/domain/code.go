package domain

import (
	"math/rand/v2"
	"strings"
)

// CodeAlphabet is every consonant that survives casual typing: no vowels,
// nothing visually confusable.
const CodeAlphabet = "BCDFGHJKLMNPQRSTVWXYZ"

const CodeLength = 5

// RoomCode is a 5-character identifier drawn from CodeAlphabet, unique among
// live rooms.
type RoomCode string

// CodeAllocator mints room codes by rejection sampling: draw five uniform
// characters, retry on collision. The code space (21^5, about 4 million)
// dwarfs any realistic number of live rooms, so retries are vanishingly rare
// and no retry bound is needed.
type CodeAllocator struct {
	rng *rand.Rand
}

func NewCodeAllocator() *CodeAllocator {
	return &CodeAllocator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Allocate returns a fresh code not claimed by taken. taken is consulted
// under whatever lock the caller holds; Allocate itself takes none.
func (a *CodeAllocator) Allocate(taken func(RoomCode) bool) RoomCode {
	for {
		code := a.sample()
		if !taken(code) {
			return code
		}
	}
}

func (a *CodeAllocator) sample() RoomCode {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(CodeAlphabet[a.rng.IntN(len(CodeAlphabet))])
	}
	return RoomCode(b.String())
}

// ValidCode reports whether s already has the canonical room-code shape:
// exactly five characters, all from CodeAlphabet. Callers normalize case
// first.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(CodeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
