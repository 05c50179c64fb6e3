// Package transformer holds the rewrite rules, one per class graph entity.
//
// Every rule is a pure function: it takes an immutable Context and an
// input node and returns a new node. Unchanged sub-slices may be shared
// with the input, so callers must not mutate either side afterwards.
package transformer

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
	"github.com/whit3rabbit/dexmixer/internal/mapping"
)

// Context carries the mode flags and lookup tables of one rewrite pass.
// The tables must be complete before the pass starts and are only read.
type Context struct {
	Obfuscate bool
	Shrink    bool
	Types     *mapping.Table
	Keeps     *mapping.KeepSet
	Strings   *mapping.StringTable
}

// RewriteFile applies every rule to every class of f, keeping class order.
func RewriteFile(ctx Context, f *ir.File) *ir.File {
	out := &ir.File{Classes: make([]*ir.ClassDef, len(f.Classes))}
	for i, c := range f.Classes {
		out.Classes[i] = RewriteClass(ctx, c)
	}
	return out
}

// RewriteType resolves a type descriptor through the type table. Array
// dimensions are stripped before the lookup and restored afterwards, so
// "[Lfoo;" follows the mapping of "Lfoo;".
func RewriteType(ctx Context, desc string) string {
	if ctx.Types == nil || desc == "" {
		return desc
	}
	elem, dims := ir.SplitArray(desc)
	if !ir.IsClassDescriptor(elem) {
		return desc
	}
	return ir.WrapArray(ctx.Types.Get(elem), dims)
}

func rewriteTypes(ctx Context, descs []string) []string {
	if descs == nil {
		return nil
	}
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = RewriteType(ctx, d)
	}
	return out
}
