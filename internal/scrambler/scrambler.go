// Package scrambler generates replacement identifiers for renamed types.
//
// Names are drawn from a small alphabet of code points that render as
// zero-width or blank glyphs (format controls, Mongolian free variation
// selectors, variation selectors). The names are valid identifiers to the
// runtime but look empty to a human reading a decompiler listing.
package scrambler

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"
)

const (
	// Characters used for generated names. Exactly 23 code points.
	invisibleChars = "\u061c\u17b4\u17b5\u180b\u180c\u180d\u180e" +
		"\ufe00\ufe01\ufe02\ufe03\ufe04\ufe05\ufe06\ufe07" +
		"\ufe08\ufe09\ufe0a\ufe0b\ufe0c\ufe0d\ufe0e\ufe0f"

	// Limits
	minNameLen       = 16
	maxNameLen       = 24 // exclusive
	maxRegenAttempts = 8

	// VisiblePackageMinSdk is the lowest platform version that accepts a
	// package segment made only of invisible characters. Older runtimes
	// need one visible character in front.
	VisiblePackageMinSdk = 25
)

var alphabet = []rune(invisibleChars)

// NameSet records every name handed out during one mapping pass.
type NameSet map[string]struct{}

// Contains reports whether name has already been handed out.
func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Generator produces scrambled names from an injected random source.
// A Generator is not safe for concurrent use, and neither is the NameSet
// passed to it.
type Generator struct {
	rnd *rand.Rand
}

// New returns a generator drawing from rnd.
func New(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// NewSeeded returns a deterministic generator, for tests and reproducible
// builds.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// NewRandom returns a generator seeded from crypto/rand.
func NewRandom() (*Generator, error) {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("failed to seed name generator: %w", err)
	}
	return NewSeeded(int64(binary.LittleEndian.Uint64(seed[:]))), nil
}

// NextString returns a fresh invisible string with a length in
// [minNameLen, maxNameLen).
func (g *Generator) NextString() string {
	return g.nextString(minNameLen + g.rnd.Intn(maxNameLen-minNameLen))
}

func (g *Generator) nextString(length int) string {
	var sb strings.Builder
	sb.Grow(length * utf8.UTFMax)
	for i := 0; i < length; i++ {
		sb.WriteRune(alphabet[g.rnd.Intn(len(alphabet))])
	}
	return sb.String()
}

// NextName returns a name not yet in names and records it there. On a
// collision another random string is appended and the result retested, up
// to maxRegenAttempts times; after that the last candidate is used as is.
func (g *Generator) NextName(names NameSet) string {
	name := g.NextString()
	for attempt := 0; attempt < maxRegenAttempts; attempt++ {
		if !names.Contains(name) {
			break
		}
		name += g.NextString()
	}
	names[name] = struct{}{}
	return name
}

// PackageName returns the shared package segment for one mapping pass.
// Below VisiblePackageMinSdk the name starts with a random lowercase ASCII
// letter.
func (g *Generator) PackageName(minSdk int) string {
	name := g.NextString()
	if minSdk < VisiblePackageMinSdk {
		name = string(rune('a'+g.rnd.Intn(26))) + name
	}
	return name
}

// IsScrambled reports whether name consists only of generator characters,
// ignoring one optional leading ASCII lowercase letter.
func IsScrambled(name string) bool {
	if name == "" {
		return false
	}
	if c := name[0]; c >= 'a' && c <= 'z' {
		name = name[1:]
	}
	if name == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(invisibleChars, r) {
			return false
		}
	}
	return true
}

// Alphabet returns a copy of the generator's character set.
func Alphabet() []rune {
	return append([]rune(nil), alphabet...)
}
