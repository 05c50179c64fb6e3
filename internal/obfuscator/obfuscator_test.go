package obfuscator_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/ir"
	"github.com/whit3rabbit/dexmixer/internal/mapping"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
)

func init() {
	config.Testing = true
}

const objectType = "Ljava/lang/Object;"

func constString(s string) ir.Instruction {
	return ir.Instruction{Opcode: "const-string", Format: ir.Format21c, Registers: []int{0}, Reference: ir.NewStringReference(s)}
}

func returnVoid() ir.Instruction {
	return ir.Instruction{Opcode: "return-void", Format: ir.Format10x}
}

func sampleFile() *ir.File {
	marker := &ir.ClassDef{
		Type:        "Lcom/app/Keep;",
		AccessFlags: ir.AccPublic | ir.AccInterface | ir.AccAbstract | ir.AccAnnotation,
		SuperClass:  objectType,
		Interfaces:  []string{"Ljava/lang/annotation/Annotation;"},
	}
	base := &ir.ClassDef{
		Type:        "Lcom/app/Base;",
		SuperClass:  objectType,
		SourceFile:  "Base.java",
		Annotations: []ir.Annotation{{Visibility: ir.VisibilityRuntime, Type: "Lcom/app/Keep;"}},
		Methods: []*ir.Method{{
			DefiningClass: "Lcom/app/Base;",
			Name:          "hello",
			ReturnType:    "V",
			AccessFlags:   ir.AccProtected,
			Annotations: []ir.Annotation{
				{Visibility: ir.VisibilityRuntime, Type: "Lcom/app/Keep;"},
				{Visibility: ir.VisibilityRuntime, Type: "Ljava/lang/Deprecated;"},
			},
			Parameters: []ir.MethodParameter{{Type: "[Lcom/app/Base;", Name: "peers"}},
			Implementation: &ir.MethodImplementation{
				RegisterCount: 2,
				Instructions:  []ir.Instruction{constString("secret"), returnVoid()},
				DebugItems:    []ir.DebugItem{{Kind: ir.DebugLineNumber, Line: 3}},
			},
		}},
	}
	derived := &ir.ClassDef{
		Type:        "Lcom/app/Derived;",
		AccessFlags: ir.AccFinal,
		SuperClass:  "Lcom/app/Base;",
		Methods: []*ir.Method{{
			DefiningClass: "Lcom/app/Derived;",
			Name:          "run",
			ReturnType:    "V",
			Implementation: &ir.MethodImplementation{
				RegisterCount: 1,
				Instructions:  []ir.Instruction{constString("secret"), constString("other"), returnVoid()},
			},
		}},
	}
	return &ir.File{Classes: []*ir.ClassDef{marker, base, derived}}
}

func encode(t *testing.T, f *ir.File) []byte {
	t.Helper()
	data, err := container.NewYAML().Encode(f)
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, data []byte) *ir.File {
	t.Helper()
	f, err := container.NewYAML().Decode(data)
	require.NoError(t, err)
	return f
}

func newEditor(t *testing.T, seed int64) *obfuscator.Editor {
	t.Helper()
	e, err := obfuscator.NewEditor(encode(t, sampleFile()), container.NewYAML(), obfuscator.Options{
		Generator: scrambler.NewSeeded(seed),
		Silent:    true,
	})
	require.NoError(t, err)
	return e
}

func TestNewEditor_Malformed(t *testing.T) {
	_, err := obfuscator.NewEditor([]byte("format: nope\n"), container.NewYAML(), obfuscator.Options{})
	require.Error(t, err)

	var perr *container.ParseError
	assert.True(t, errors.As(err, &perr), "want *container.ParseError, got %T", err)
	assert.ErrorIs(t, err, container.ErrMalformed)
}

func TestExecute_NoModesIsIdentity(t *testing.T) {
	e := newEditor(t, 1)
	out, err := e.Execute()
	require.NoError(t, err)

	if diff := cmp.Diff(sampleFile(), decode(t, out)); diff != "" {
		t.Errorf("unexpected rewrite (-want +got):\n%s", diff)
	}
	assert.Empty(t, e.Mappings())
}

func TestExecute_Obfuscate(t *testing.T) {
	e := newEditor(t, 42)
	e.EnableObfuscation(21)

	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	m := e.Mappings()
	require.Len(t, m, 3)
	base, derived := m["Lcom/app/Base;"], m["Lcom/app/Derived;"]
	assert.NotEqual(t, base, derived)

	require.Len(t, got.Classes, 3)
	assert.Equal(t, m["Lcom/app/Keep;"], got.Classes[0].Type)
	assert.Equal(t, base, got.Classes[1].Type)
	assert.Equal(t, derived, got.Classes[2].Type)
	assert.Equal(t, base, got.Classes[2].SuperClass)
	assert.Equal(t, objectType, got.Classes[1].SuperClass)

	pkg := strings.TrimPrefix(base[:strings.Index(base, "/")], "L")
	assert.True(t, pkg[0] >= 'a' && pkg[0] <= 'z')
	assert.True(t, scrambler.IsScrambled(pkg))

	hello := got.Classes[1].Methods[0]
	assert.Equal(t, ir.AccPublic, hello.AccessFlags)
	assert.Equal(t, "["+base, hello.Parameters[0].Type)
	assert.Equal(t, "peers", hello.Parameters[0].Name)
	assert.Len(t, hello.Annotations, 2, "annotations survive without shrink")
	assert.Equal(t, ir.AccPublic|ir.AccFinal, got.Classes[2].AccessFlags)

	// The decoded input is not modified by the rewrite.
	if diff := cmp.Diff(sampleFile(), e.Input()); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestExecute_ObfuscateAndShrink(t *testing.T) {
	e := newEditor(t, 42)
	e.EnableObfuscation(25)
	e.EnableShrink()

	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	keep := e.Mappings()["Lcom/app/Keep;"]
	base := got.Classes[1]
	assert.Equal(t, "", base.SourceFile)
	require.Len(t, base.Annotations, 1)
	assert.Equal(t, keep, base.Annotations[0].Type)

	hello := base.Methods[0]
	require.Len(t, hello.Annotations, 1, "only annotations of annotation definitions survive")
	assert.Equal(t, keep, hello.Annotations[0].Type)
	assert.Equal(t, "", hello.Parameters[0].Name)
	assert.Empty(t, hello.Implementation.DebugItems)

	pkg := strings.TrimPrefix(keep[:strings.Index(keep, "/")], "L")
	assert.True(t, scrambler.IsScrambled(pkg))
	assert.False(t, pkg[0] >= 'a' && pkg[0] <= 'z', "no visible prefix at the threshold")
}

func TestExecute_ShrinkOnly(t *testing.T) {
	e := newEditor(t, 1)
	e.EnableShrink()

	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	for _, c := range got.Classes {
		if c.IsAnnotationType() {
			continue
		}
		assert.Empty(t, c.Annotations, c.Type)
		for _, m := range c.Methods {
			assert.Empty(t, m.Annotations)
			assert.Empty(t, m.Implementation.DebugItems)
		}
	}
	assert.Equal(t, ir.AccProtected, got.Classes[1].Methods[0].AccessFlags, "access flags unchanged")
	assert.Equal(t, "Lcom/app/Base;", got.Classes[1].Type)
	assert.Empty(t, e.Mappings())
}

func TestExecute_StringOverride(t *testing.T) {
	e := newEditor(t, 1)
	e.OverrideString("secret", "xyz")

	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	assert.Equal(t, "xyz", got.Classes[1].Methods[0].Implementation.Instructions[0].Reference.String)
	run := got.Classes[2].Methods[0].Implementation.Instructions
	assert.Equal(t, "xyz", run[0].Reference.String)
	assert.Equal(t, "other", run[1].Reference.String)
}

func TestExecute_TypeOverrideWins(t *testing.T) {
	e := newEditor(t, 1)
	e.OverrideType("Lcom/app/Base;", "Lcom/app/First;")
	e.OverrideType("Lcom/app/Base;", "Lcom/app/Root;")
	e.EnableObfuscation(25)

	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	assert.Equal(t, "Lcom/app/Root;", got.Classes[1].Type)
	assert.Equal(t, "Lcom/app/Root;", got.Classes[2].SuperClass)
	assert.Equal(t, "Lcom/app/Root;", e.Mappings()["Lcom/app/Base;"])
	assert.True(t, scrambler.IsScrambled(ir.SimpleName(got.Classes[2].Type)))
}

func TestExecute_OverrideWithoutObfuscation(t *testing.T) {
	e := newEditor(t, 1)
	e.OverrideType("Lcom/app/Base;", "Lcom/app/Root;")

	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	assert.Equal(t, "Lcom/app/Root;", got.Classes[1].Type)
	assert.Equal(t, "Lcom/app/Derived;", got.Classes[2].Type)
	assert.Equal(t, ir.AccessFlags(0), got.Classes[1].AccessFlags)
}

func TestExecute_RepeatableAndDeterministic(t *testing.T) {
	e := newEditor(t, 9)
	e.EnableObfuscation(21)

	first, err := e.Execute()
	require.NoError(t, err)
	second, err := e.Execute()
	require.NoError(t, err)
	assert.Equal(t, first, second, "a second run reuses the mapping")

	other := newEditor(t, 9)
	other.EnableObfuscation(21)
	third, err := other.Execute()
	require.NoError(t, err)
	assert.Equal(t, first, third, "same seed, same names")
}

func TestExecute_SerializeError(t *testing.T) {
	codec := &container.YAML{Limits: container.Limits{MaxTypes: 2}}
	e, err := obfuscator.NewEditor(encode(t, sampleFile()), codec, obfuscator.Options{Silent: true})
	require.NoError(t, err)

	out, err := e.Execute()
	assert.Nil(t, out)
	var serr *container.SerializeError
	require.True(t, errors.As(err, &serr), "want *container.SerializeError, got %T", err)
	assert.ErrorIs(t, err, container.ErrLimitExceeded)
}

func TestMapping_SaveAndApply(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "mapping.state")

	e := newEditor(t, 3)
	e.EnableObfuscation(25)
	_, err := e.Execute()
	require.NoError(t, err)
	require.NoError(t, e.SaveMapping(statePath))

	// A fresh run with a different seed keeps the saved names.
	cfg := config.DefaultConfig()
	cfg.Obfuscation.Enabled = true
	cfg.Mapping.State = statePath
	next := newEditor(t, 99)
	require.NoError(t, next.Configure(cfg))
	_, err = next.Execute()
	require.NoError(t, err)
	assert.Equal(t, e.Mappings(), next.Mappings())
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "mapping.txt")
	var buf bytes.Buffer
	require.NoError(t, mapping.WriteText(&buf, map[string]string{"Lcom/app/Derived;": "Lx/D;"}))
	require.NoError(t, os.WriteFile(textPath, buf.Bytes(), 0644))

	cfg := config.DefaultConfig()
	cfg.Shrink.Enabled = true
	cfg.Mapping.Apply = textPath
	cfg.Overrides.Types = []config.Replacement{{From: "Lcom/app/Base;", To: "Lx/B;"}}
	cfg.Overrides.Strings = []config.Replacement{{From: "other", To: "o"}}

	e := newEditor(t, 1)
	require.NoError(t, e.Configure(cfg))
	out, err := e.Execute()
	require.NoError(t, err)
	got := decode(t, out)

	assert.Equal(t, "Lx/B;", got.Classes[1].Type)
	assert.Equal(t, "Lx/D;", got.Classes[2].Type)
	assert.Equal(t, "Lx/B;", got.Classes[2].SuperClass)
	assert.Equal(t, "o", got.Classes[2].Methods[0].Implementation.Instructions[1].Reference.String)
	assert.Empty(t, got.Classes[1].SourceFile)

	cfg.Mapping.Apply = filepath.Join(dir, "missing.txt")
	assert.Error(t, newEditor(t, 1).Configure(cfg))
}
