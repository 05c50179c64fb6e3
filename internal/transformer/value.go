package transformer

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// RewriteEncodedValue rewrites a constant. String constants with an exact
// match in the string table are replaced; type, field, method and enum
// constants have their descriptors resolved; arrays and nested
// annotations are rewritten element by element.
func RewriteEncodedValue(ctx Context, v ir.EncodedValue) ir.EncodedValue {
	switch v.Type {
	case ir.ValueString:
		if repl, ok := ctx.Strings.Replacement(v.String); ok {
			return ir.StringValue(repl)
		}
	case ir.ValueTypeDescriptor:
		v.TypeRef = RewriteType(ctx, v.TypeRef)
	case ir.ValueField, ir.ValueEnum, ir.ValueMethod, ir.ValueMethodType, ir.ValueMethodHandle:
		if v.Ref != nil {
			v.Ref = RewriteReference(ctx, v.Ref)
		}
	case ir.ValueArray:
		if v.Elements != nil {
			elems := make([]ir.EncodedValue, len(v.Elements))
			for i, el := range v.Elements {
				elems[i] = RewriteEncodedValue(ctx, el)
			}
			v.Elements = elems
		}
	case ir.ValueAnnotation:
		if v.Annotation != nil {
			a := rewriteAnnotation(ctx, *v.Annotation)
			v.Annotation = &a
		}
	}
	return v
}
