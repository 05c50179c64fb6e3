package mapping

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/dexmixer/internal/ir"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
)

func classes(types ...string) []*ir.ClassDef {
	out := make([]*ir.ClassDef, len(types))
	for i, typ := range types {
		out[i] = &ir.ClassDef{Type: typ, AccessFlags: ir.AccPublic}
	}
	return out
}

func TestTableIdentityFallback(t *testing.T) {
	table := NewTable()
	assert.Equal(t, "Lcom/example/Unknown;", table.Get("Lcom/example/Unknown;"))
	assert.Equal(t, "I", table.Get("I"))
	assert.False(t, table.Contains("Lcom/example/Unknown;"))
	assert.Equal(t, 0, table.Len())

	table.Set("La;", "Lb;")
	assert.Equal(t, "Lb;", table.Get("La;"))
	assert.True(t, table.Contains("La;"))

	table.Set("La;", "Lc;")
	assert.Equal(t, "Lc;", table.Get("La;"), "explicit Set overwrites")
}

func TestTableSnapshotIsACopy(t *testing.T) {
	table := NewTable()
	table.Set("La;", "Lb;")
	snap := table.Snapshot()
	snap["La;"] = "Lz;"
	snap["Lx;"] = "Ly;"
	assert.Equal(t, "Lb;", table.Get("La;"))
	assert.False(t, table.Contains("Lx;"))
}

func TestTableKeysSorted(t *testing.T) {
	table := NewTable()
	table.Set("Lc;", "1")
	table.Set("La;", "2")
	table.Set("Lb;", "3")
	assert.Equal(t, []string{"La;", "Lb;", "Lc;"}, table.Keys())
}

func TestReverse(t *testing.T) {
	rev := Reverse(map[string]string{"La;": "LX;", "Lb;": "LY;", "Lc;": "LX;"})
	assert.Equal(t, map[string]string{"LX;": "La;", "LY;": "Lb;"}, rev)
}

func TestKeepSet(t *testing.T) {
	var nilSet *KeepSet
	assert.False(t, nilSet.Contains("La;"))
	assert.Equal(t, 0, nilSet.Len())
	assert.Nil(t, nilSet.Types())

	k := NewKeepSet()
	k.Add("Lb;")
	k.Add("La;")
	k.Add("Lb;")
	assert.True(t, k.Contains("La;"))
	assert.False(t, k.Contains("Lc;"))
	assert.Equal(t, []string{"Lb;", "La;"}, k.Types())
}

func TestStringTable(t *testing.T) {
	var nilTable *StringTable
	_, ok := nilTable.Replacement("secret")
	assert.False(t, ok)

	st := NewStringTable()
	st.Set("secret", "xyz")
	got, ok := st.Replacement("secret")
	require.True(t, ok)
	assert.Equal(t, "xyz", got)

	_, ok = st.Replacement("secret ")
	assert.False(t, ok, "matching is exact")
	_, ok = st.Replacement("Secret")
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestBuildGeneratesDescriptors(t *testing.T) {
	table := NewTable()
	res := Build(table, classes("Lcom/example/A;", "Lcom/example/B;"), scrambler.NewSeeded(1), make(scrambler.NameSet), 21)

	require.Equal(t, 2, res.Generated)
	assert.True(t, res.Package[0] >= 'a' && res.Package[0] <= 'z')

	a := table.Get("Lcom/example/A;")
	b := table.Get("Lcom/example/B;")
	assert.NotEqual(t, a, b)
	for _, typ := range []string{a, b} {
		require.True(t, ir.IsClassDescriptor(typ), typ)
		inner := typ[1 : len(typ)-1]
		pkg, leaf, found := strings.Cut(inner, "/")
		require.True(t, found)
		assert.Equal(t, res.Package, pkg)
		assert.True(t, scrambler.IsScrambled(leaf))
	}
}

func TestBuildKeepsOverrides(t *testing.T) {
	table := NewTable()
	table.Set("Lcom/example/A;", "Lcom/example/Keep;")

	res := Build(table, classes("Lcom/example/A;", "Lcom/example/B;"), scrambler.NewSeeded(2), make(scrambler.NameSet), 30)
	assert.Equal(t, 1, res.Generated)
	assert.Equal(t, "Lcom/example/Keep;", table.Get("Lcom/example/A;"))
	assert.NotEqual(t, "Lcom/example/B;", table.Get("Lcom/example/B;"))
}

func TestBuildIsStableAcrossPasses(t *testing.T) {
	table := NewTable()
	input := classes("La;", "Lb;", "Lc;")
	names := make(scrambler.NameSet)
	Build(table, input, scrambler.NewSeeded(3), names, 30)
	first := table.Snapshot()

	res := Build(table, input, scrambler.NewSeeded(4), names, 30)
	assert.Equal(t, 0, res.Generated)
	assert.Equal(t, first, table.Snapshot())
}

func TestBuildRecordsAnnotationTypesUnderNewName(t *testing.T) {
	input := classes("Lcom/example/Plain;", "Lcom/example/Marker;", "Lcom/example/Overridden;")
	input[1].AccessFlags |= ir.AccAnnotation | ir.AccInterface | ir.AccAbstract
	input[2].AccessFlags |= ir.AccAnnotation | ir.AccInterface

	table := NewTable()
	table.Set("Lcom/example/Overridden;", "Lkeep/Overridden;")
	res := Build(table, input, scrambler.NewSeeded(5), make(scrambler.NameSet), 30)

	assert.Equal(t, 2, res.Keeps.Len())
	assert.True(t, res.Keeps.Contains(table.Get("Lcom/example/Marker;")))
	assert.True(t, res.Keeps.Contains("Lkeep/Overridden;"))
	assert.False(t, res.Keeps.Contains("Lcom/example/Marker;"), "original name must not be kept")
	assert.False(t, res.Keeps.Contains(table.Get("Lcom/example/Plain;")))
}

func TestBuildUniqueness(t *testing.T) {
	types := make([]string, 3000)
	for i := range types {
		types[i] = fmt.Sprintf("Lcom/example/C%d;", i)
	}
	table := NewTable()
	Build(table, classes(types...), scrambler.NewSeeded(6), make(scrambler.NameSet), 30)

	seen := make(map[string]string)
	for _, typ := range types {
		repl := table.Get(typ)
		if other, dup := seen[repl]; dup {
			t.Fatalf("%s and %s both map to %q", other, typ, repl)
		}
		seen[repl] = typ
	}
}

func TestSaveLoadState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.state")

	table := NewTable()
	table.Set("La;", "Lx/\u180b\u180c;")
	table.Set("Lb;", "Lx/\ufe00;")
	require.NoError(t, table.SaveState(path))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, table.Snapshot(), loaded)
}

func TestLoadStateMissingFile(t *testing.T) {
	loaded, err := LoadState(filepath.Join(t.TempDir(), "absent.state"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadStateRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.state")
	require.NoError(t, os.WriteFile(path, []byte("not gob"), 0644))
	_, err := LoadState(path)
	assert.Error(t, err)
}

func TestTextMapping(t *testing.T) {
	snapshot := map[string]string{
		"Lcom/example/B;": "Lq\u180b/\ufe01\ufe02;",
		"Lcom/example/A;": "Lq\u180b/\ufe00;",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, snapshot))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, `"Lcom/example/A;" -> "Lq\u180b/\ufe00;"`), text)
	assert.NotContains(t, text, "\ufe00", "non-ASCII must be escaped")

	parsed, err := ReadText(strings.NewReader("# retrace map\n\n" + text))
	require.NoError(t, err)
	assert.Equal(t, snapshot, parsed)
}

func TestReadTextErrors(t *testing.T) {
	for _, line := range []string{
		`La; -> Lb;`,
		`"La;" Lb;`,
		`"La;" -> Lb;`,
		`"La;" -> "Lb;" extra`,
	} {
		_, err := ReadText(strings.NewReader(line))
		assert.Error(t, err, line)
	}
}
