package transformer

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// FilterAnnotations applies the shrink retention policy: when shrinking,
// only annotations whose type is in the keep set survive. Without shrink,
// or for an empty list, the input is returned as is.
//
// The keep set holds post-rename types, so annotations must already have
// been through rewriteAnnotation. A pass that shrinks without obfuscating
// has an empty keep set and therefore drops every annotation.
func FilterAnnotations(ctx Context, annotations []ir.Annotation) []ir.Annotation {
	if !ctx.Shrink || len(annotations) == 0 {
		return annotations
	}
	var kept []ir.Annotation
	for _, a := range annotations {
		if ctx.Keeps.Contains(a.Type) {
			kept = append(kept, a)
		}
	}
	return kept
}

// RewriteAnnotations rewrites the annotations of a field, method or
// parameter and applies the retention policy.
func RewriteAnnotations(ctx Context, annotations []ir.Annotation) []ir.Annotation {
	return FilterAnnotations(ctx, rewriteAnnotationList(ctx, annotations))
}

func rewriteAnnotationList(ctx Context, annotations []ir.Annotation) []ir.Annotation {
	if annotations == nil {
		return nil
	}
	out := make([]ir.Annotation, len(annotations))
	for i, a := range annotations {
		out[i] = rewriteAnnotation(ctx, a)
	}
	return out
}

func rewriteAnnotation(ctx Context, a ir.Annotation) ir.Annotation {
	out := ir.Annotation{
		Visibility: a.Visibility,
		Type:       RewriteType(ctx, a.Type),
	}
	if a.Elements != nil {
		out.Elements = make([]ir.AnnotationElement, len(a.Elements))
		for i, el := range a.Elements {
			out.Elements[i] = ir.AnnotationElement{
				Name:  el.Name,
				Value: RewriteEncodedValue(ctx, el.Value),
			}
		}
	}
	return out
}
