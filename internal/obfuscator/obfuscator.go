// Package obfuscator orchestrates the overall process and holds shared context.
package obfuscator

import (
	"fmt"
	"os"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/ir"
	"github.com/whit3rabbit/dexmixer/internal/mapping"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
	"github.com/whit3rabbit/dexmixer/internal/transformer"
)

// Options tune an Editor beyond what the public operations cover.
type Options struct {
	// Generator supplies generated names. Nil means a randomly seeded one.
	Generator *scrambler.Generator
	Silent    bool
	DebugMode bool
}

// Editor rewrites one parsed container. Modes and overrides may be set in
// any order before Execute; the type mapping is only built by Execute.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	codec container.Codec
	input *ir.File
	opts  Options
	parts []int // class counts per input, set for groups

	obfuscate bool
	minSdk    int
	shrink    bool

	types   *mapping.Table
	strings *mapping.StringTable
	keeps   *mapping.KeepSet
	gen     *scrambler.Generator
	names   scrambler.NameSet
}

// NewEditor decodes input with codec. A malformed container is reported
// as a *container.ParseError.
func NewEditor(input []byte, codec container.Codec, opts Options) (*Editor, error) {
	f, err := codec.Decode(input)
	if err != nil {
		return nil, err
	}
	return NewEditorForFile(f, codec, opts)
}

// NewEditorForFile wraps an already decoded file. The file is never
// modified.
func NewEditorForFile(f *ir.File, codec container.Codec, opts Options) (*Editor, error) {
	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = scrambler.NewRandom()
		if err != nil {
			return nil, err
		}
	}
	return &Editor{
		codec:   codec,
		input:   f,
		opts:    opts,
		minSdk:  config.DefaultMinSdk,
		types:   mapping.NewTable(),
		strings: mapping.NewStringTable(),
		keeps:   mapping.NewKeepSet(),
		gen:     gen,
		names:   scrambler.NameSet{},
	}, nil
}

// Input returns the decoded input file.
func (e *Editor) Input() *ir.File { return e.input }

// EnableObfuscation turns on class renaming. minSdk decides whether the
// generated package name needs a visible leading letter.
func (e *Editor) EnableObfuscation(minSdk int) {
	e.obfuscate = true
	e.minSdk = minSdk
}

// EnableShrink turns on removal of debug metadata and annotations.
func (e *Editor) EnableShrink() {
	e.shrink = true
}

// OverrideType pins the replacement of one class type. Overrides take
// precedence over generated names; a later override of the same type
// replaces an earlier one.
func (e *Editor) OverrideType(original, replacement string) {
	e.types.Set(original, replacement)
}

// OverrideString registers an exact-match string literal replacement.
func (e *Editor) OverrideString(original, replacement string) {
	e.strings.Set(original, replacement)
}

// ApplyMapping registers every entry of a previous mapping as a type
// override, so classes keep the names an earlier run gave them.
func (e *Editor) ApplyMapping(m map[string]string) {
	for _, k := range mapping.Keys(m) {
		e.types.Set(k, m[k])
	}
}

// Mappings returns a snapshot of the type mapping, original to replacement.
func (e *Editor) Mappings() map[string]string {
	return e.types.Snapshot()
}

// SaveMapping writes the type mapping state to path.
func (e *Editor) SaveMapping(path string) error {
	if err := e.types.SaveState(path); err != nil {
		return err
	}
	if !e.opts.Silent {
		config.PrintInfo("Info: Saved type mapping (%d entries) to %s\n", e.types.Len(), path)
	}
	return nil
}

// Rewrite builds the type mapping when obfuscating and returns the
// rewritten file. The input file is left untouched, so Rewrite may run
// more than once; names generated by an earlier call are kept.
func (e *Editor) Rewrite() *ir.File {
	if e.obfuscate {
		res := mapping.Build(e.types, e.input.Classes, e.gen, e.names, e.minSdk)
		e.keeps = res.Keeps
		if !e.opts.Silent {
			config.PrintInfo("Info: Built type mapping for %d classes (%d generated)\n", len(e.input.Classes), res.Generated)
		}
		e.debugf("package segment %q, %d annotation types kept\n", res.Package, res.Keeps.Len())
	}

	ctx := transformer.Context{
		Obfuscate: e.obfuscate,
		Shrink:    e.shrink,
		Types:     e.types,
		Keeps:     e.keeps,
		Strings:   e.strings,
	}
	if e.shrink && !e.obfuscate && !e.opts.Silent {
		fmt.Fprintf(os.Stderr, "Warning: shrinking without obfuscation removes every annotation outside annotation definitions\n")
	}

	out := transformer.RewriteFile(ctx, e.input)
	if !e.opts.Silent {
		config.PrintInfo("Info: Rewrote %d classes (obfuscate=%t, shrink=%t)\n", len(out.Classes), e.obfuscate, e.shrink)
	}
	return out
}

// Execute rewrites the input and encodes the result. Encoding failures
// are reported as a *container.SerializeError and no output is returned.
func (e *Editor) Execute() ([]byte, error) {
	data, err := e.codec.Encode(e.Rewrite())
	if err != nil {
		return nil, err
	}
	e.debugf("encoded %d bytes\n", len(data))
	return data, nil
}

// Configure applies the modes, overrides and mapping inputs of cfg.
func (e *Editor) Configure(cfg *config.Config) error {
	if cfg.Obfuscation.Enabled {
		e.EnableObfuscation(cfg.Obfuscation.MinSdk)
	}
	if cfg.Shrink.Enabled {
		e.EnableShrink()
	}
	if cfg.Mapping.State != "" {
		state, err := mapping.LoadState(cfg.Mapping.State)
		if err != nil {
			return err
		}
		e.ApplyMapping(state)
		e.debugf("loaded %d mapping entries from %s\n", len(state), cfg.Mapping.State)
	}
	if cfg.Mapping.Apply != "" {
		f, err := os.Open(cfg.Mapping.Apply)
		if err != nil {
			return fmt.Errorf("failed to open mapping %s: %w", cfg.Mapping.Apply, err)
		}
		m, err := mapping.ReadText(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read mapping %s: %w", cfg.Mapping.Apply, err)
		}
		e.ApplyMapping(m)
		if !e.opts.Silent {
			config.PrintInfo("Info: Applied %d type mappings from %s\n", len(m), cfg.Mapping.Apply)
		}
	}
	for _, r := range cfg.Overrides.Types {
		e.OverrideType(r.From, r.To)
	}
	for _, r := range cfg.Overrides.Strings {
		e.OverrideString(r.From, r.To)
	}
	return nil
}

func (e *Editor) debugf(format string, args ...interface{}) {
	if e.opts.DebugMode {
		config.PrintInfo("Debug: "+format, args...)
	}
}
