// Package mapping holds the lookup tables shared by every rewrite rule:
// the type mapping, the set of kept annotation types and the string
// replacement table.
package mapping

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Table maps original type descriptors to their replacements. Looking up a
// type that was never inserted yields the type itself.
type Table struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{m: make(map[string]string)}
}

// Get returns the replacement for typ, or typ itself when none is
// registered.
func (t *Table) Get(typ string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.m[typ]; ok {
		return v
	}
	return typ
}

// Contains reports whether typ has an explicit entry.
func (t *Table) Contains(typ string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.m[typ]
	return ok
}

// Set registers an explicit replacement, overwriting any earlier one.
// Callers use it for overrides before a mapping pass runs; the mapping pass
// itself only fills keys that are still absent, see Build.
func (t *Table) Set(typ, replacement string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[typ] = replacement
}

// setIfAbsent inserts typ only when it has no entry yet and reports the
// resulting value.
func (t *Table) setIfAbsent(typ string, gen func() string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.m[typ]; ok {
		return v
	}
	v := gen()
	t.m[typ] = v
	return v
}

// Len returns the number of explicit entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}

// Snapshot returns a copy of every explicit entry.
func (t *Table) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.m)
}

// Keys returns the original types with an explicit entry, sorted.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Keys(t.m)
}

// Keys returns the keys of a snapshot, sorted.
func Keys(snapshot map[string]string) []string {
	keys := maps.Keys(snapshot)
	slices.Sort(keys)
	return keys
}

// Reverse inverts a snapshot: replacement -> original. When several
// originals share a replacement (only possible through overrides) the
// lexically smallest original wins.
func Reverse(snapshot map[string]string) map[string]string {
	keys := Keys(snapshot)
	rev := make(map[string]string, len(snapshot))
	for _, k := range keys {
		v := snapshot[k]
		if _, dup := rev[v]; !dup {
			rev[v] = k
		}
	}
	return rev
}

// KeepSet is the set of (post-rename) annotation types whose instances
// survive shrinking.
type KeepSet struct {
	types map[string]struct{}
	order []string
}

// NewKeepSet returns an empty set.
func NewKeepSet() *KeepSet {
	return &KeepSet{types: make(map[string]struct{})}
}

// Add records typ. Adding a type twice is a no-op.
func (k *KeepSet) Add(typ string) {
	if _, ok := k.types[typ]; ok {
		return
	}
	k.types[typ] = struct{}{}
	k.order = append(k.order, typ)
}

// Contains reports whether typ is kept. A nil set contains nothing.
func (k *KeepSet) Contains(typ string) bool {
	if k == nil {
		return false
	}
	_, ok := k.types[typ]
	return ok
}

// Len returns the number of kept types.
func (k *KeepSet) Len() int {
	if k == nil {
		return 0
	}
	return len(k.order)
}

// Types returns the kept types in insertion order.
func (k *KeepSet) Types() []string {
	if k == nil {
		return nil
	}
	return slices.Clone(k.order)
}

// StringTable maps literal strings to replacement literals. Matching is
// exact; there is no pattern or substring substitution.
type StringTable struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewStringTable returns an empty table.
func NewStringTable() *StringTable {
	return &StringTable{m: make(map[string]string)}
}

// Set registers a replacement for literal, overwriting any earlier one.
func (s *StringTable) Set(literal, replacement string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[literal] = replacement
}

// Replacement returns the registered replacement for literal. A nil table
// has no replacements.
func (s *StringTable) Replacement(literal string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[literal]
	return v, ok
}

// Len returns the number of registered replacements.
func (s *StringTable) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
