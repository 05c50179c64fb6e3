package transformer

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// RewriteClass rewrites a class definition and everything it owns.
//
// Obfuscation makes the class public: after every class moves into one
// flat package, package-private visibility would break references between
// them. Shrinking drops the source file name. Annotations on the class are
// filtered by the retention policy, except on annotation definitions, whose
// meta-annotations (@Retention, @Target, ...) must survive.
func RewriteClass(ctx Context, c *ir.ClassDef) *ir.ClassDef {
	out := &ir.ClassDef{
		Type:        RewriteType(ctx, c.Type),
		AccessFlags: c.AccessFlags,
		SuperClass:  RewriteType(ctx, c.SuperClass),
		Interfaces:  rewriteTypes(ctx, c.Interfaces),
		SourceFile:  c.SourceFile,
	}
	if ctx.Obfuscate {
		out.AccessFlags = out.AccessFlags.Without(ir.AccPrivate | ir.AccProtected).With(ir.AccPublic)
	}
	if ctx.Shrink {
		out.SourceFile = ""
	}

	annotations := rewriteAnnotationList(ctx, c.Annotations)
	if !c.IsAnnotationType() {
		annotations = FilterAnnotations(ctx, annotations)
	}
	out.Annotations = annotations

	if c.Fields != nil {
		out.Fields = make([]*ir.Field, len(c.Fields))
		for i, f := range c.Fields {
			out.Fields[i] = RewriteField(ctx, f)
		}
	}
	if c.Methods != nil {
		out.Methods = make([]*ir.Method, len(c.Methods))
		for i, m := range c.Methods {
			out.Methods[i] = RewriteMethod(ctx, m)
		}
	}
	return out
}
