package mapping

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
)

// BuildResult describes one mapping pass.
type BuildResult struct {
	// Package is the shared package segment every generated type lives in.
	Package string
	// Keeps holds the post-rename types of annotation definitions.
	Keeps *KeepSet
	// Generated counts the entries this pass added to the table.
	Generated int
}

// Build runs the mapping pass over classes in presentation order. Every
// class without an entry in table receives a generated descriptor
// "L<package>/<name>;"; classes that already have one (explicit overrides,
// a loaded mapping, an earlier pass) keep it.
//
// Annotation definitions are recorded in the keep set under their
// resulting descriptor, because shrinking compares against annotation
// types after they have been rewritten.
//
// names collects the leaf names handed out so far and may be shared across
// passes.
func Build(table *Table, classes []*ir.ClassDef, gen *scrambler.Generator, names scrambler.NameSet, minSdk int) BuildResult {
	res := BuildResult{
		Package: gen.PackageName(minSdk),
		Keeps:   NewKeepSet(),
	}
	for _, class := range classes {
		newType := table.setIfAbsent(class.Type, func() string {
			res.Generated++
			return ir.ClassDescriptor(res.Package, gen.NextName(names))
		})
		if class.IsAnnotationType() {
			res.Keeps.Add(newType)
		}
	}
	return res
}
