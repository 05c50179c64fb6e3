package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/whit3rabbit/dexmixer/internal/ir"
)

const (
	// FormatName identifies the YAML class graph container.
	FormatName = "dexmixer-ir"
	// FormatVersion is the only document version this codec reads and writes.
	FormatVersion = 1

	// DefaultPoolLimit is the DEX per-file index limit for type, field and
	// method references.
	DefaultPoolLimit = 1 << 16
)

// document is the on-disk layout of a YAML container.
type document struct {
	Format  string         `yaml:"format"`
	Version int            `yaml:"version"`
	Classes []*ir.ClassDef `yaml:"classes"`
}

// Limits bounds the distinct references an encoded container may hold.
// Zero means unlimited.
type Limits struct {
	MaxTypes   int
	MaxFields  int
	MaxMethods int
}

// YAML is a Codec for the textual class graph container. It is the format
// the command line tool reads and writes; binary formats plug in through
// the same interface.
type YAML struct {
	Limits Limits
}

// NewYAML returns a YAML codec enforcing the DEX index limits.
func NewYAML() *YAML {
	return &YAML{Limits: Limits{
		MaxTypes:   DefaultPoolLimit,
		MaxFields:  DefaultPoolLimit,
		MaxMethods: DefaultPoolLimit,
	}}
}

// Decode parses a YAML container. Unknown keys are rejected.
func (y *YAML) Decode(data []byte) (*ir.File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("empty input")
		}
		return nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if doc.Format != FormatName {
		return nil, malformed("unexpected format %q, want %q", doc.Format, FormatName)
	}
	if doc.Version != FormatVersion {
		return nil, malformed("unsupported version %d", doc.Version)
	}

	f := &ir.File{Classes: doc.Classes}
	if err := validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Encode serializes f after checking it against the codec's limits.
func (y *YAML) Encode(f *ir.File) ([]byte, error) {
	if err := y.Limits.check(CountPools(f)); err != nil {
		return nil, &SerializeError{Err: err}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document{Format: FormatName, Version: FormatVersion, Classes: f.Classes}); err != nil {
		return nil, &SerializeError{Err: fmt.Errorf("failed to encode container: %w", err)}
	}
	if err := enc.Close(); err != nil {
		return nil, &SerializeError{Err: fmt.Errorf("failed to flush container: %w", err)}
	}
	return buf.Bytes(), nil
}

func (l Limits) check(p PoolSizes) error {
	switch {
	case l.MaxTypes > 0 && p.Types > l.MaxTypes:
		return fmt.Errorf("%w: %d type references (max %d)", ErrLimitExceeded, p.Types, l.MaxTypes)
	case l.MaxFields > 0 && p.Fields > l.MaxFields:
		return fmt.Errorf("%w: %d field references (max %d)", ErrLimitExceeded, p.Fields, l.MaxFields)
	case l.MaxMethods > 0 && p.Methods > l.MaxMethods:
		return fmt.Errorf("%w: %d method references (max %d)", ErrLimitExceeded, p.Methods, l.MaxMethods)
	}
	return nil
}

// validate checks the structural rules a parser would enforce on a real
// container.
func validate(f *ir.File) error {
	seen := make(map[string]bool, len(f.Classes))
	for i, c := range f.Classes {
		if c == nil {
			return malformed("class #%d is empty", i)
		}
		if !ir.IsClassDescriptor(c.Type) {
			return malformed("class #%d has invalid type descriptor %q", i, c.Type)
		}
		if seen[c.Type] {
			return malformed("duplicate class %s", c.Type)
		}
		seen[c.Type] = true
		if c.SuperClass != "" && !ir.IsClassDescriptor(c.SuperClass) {
			return malformed("class %s has invalid super class %q", c.Type, c.SuperClass)
		}
		for _, fld := range c.Fields {
			if fld == nil || fld.DefiningClass != c.Type {
				return malformed("class %s contains a field defined elsewhere", c.Type)
			}
			if fld.Name == "" || fld.Type == "" {
				return malformed("class %s has a field without name or type", c.Type)
			}
		}
		for _, m := range c.Methods {
			if m == nil || m.DefiningClass != c.Type {
				return malformed("class %s contains a method defined elsewhere", c.Type)
			}
			if m.Name == "" || m.ReturnType == "" {
				return malformed("class %s has a method without name or return type", c.Type)
			}
			if err := validateImplementation(c.Type+"->"+m.Name, m.Implementation); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateImplementation(where string, impl *ir.MethodImplementation) error {
	if impl == nil {
		return nil
	}
	for i, insn := range impl.Instructions {
		if strings.TrimSpace(insn.Opcode) == "" {
			return malformed("%s: instruction #%d has no opcode", where, i)
		}
		hasRef := insn.Format.HasReference()
		switch {
		case hasRef && insn.Reference == nil:
			return malformed("%s: %s (format %s) is missing its reference", where, insn.Opcode, insn.Format)
		case !hasRef && insn.Reference != nil:
			return malformed("%s: %s (format %s) cannot carry a reference", where, insn.Opcode, insn.Format)
		}
		if insn.Reference != nil {
			switch insn.Reference.Kind {
			case ir.StringRef, ir.TypeRef, ir.FieldRef, ir.MethodRef:
			default:
				return malformed("%s: %s has unknown reference kind %q", where, insn.Opcode, insn.Reference.Kind)
			}
		}
	}
	return nil
}
