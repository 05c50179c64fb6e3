package transformer

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// MemberAccessFlags flattens field and method visibility when obfuscating:
// protected is cleared and anything not private becomes public.
func MemberAccessFlags(ctx Context, flags ir.AccessFlags) ir.AccessFlags {
	if !ctx.Obfuscate {
		return flags
	}
	flags = flags.Without(ir.AccProtected)
	if !flags.Has(ir.AccPrivate) {
		flags = flags.With(ir.AccPublic)
	}
	return flags
}

// RewriteField rewrites a field definition.
func RewriteField(ctx Context, f *ir.Field) *ir.Field {
	out := &ir.Field{
		DefiningClass: RewriteType(ctx, f.DefiningClass),
		Name:          f.Name,
		Type:          RewriteType(ctx, f.Type),
		AccessFlags:   MemberAccessFlags(ctx, f.AccessFlags),
		Annotations:   RewriteAnnotations(ctx, f.Annotations),
	}
	if f.InitialValue != nil {
		v := RewriteEncodedValue(ctx, *f.InitialValue)
		out.InitialValue = &v
	}
	return out
}

// RewriteMethod rewrites a method definition, its parameters and its body.
func RewriteMethod(ctx Context, m *ir.Method) *ir.Method {
	out := &ir.Method{
		DefiningClass: RewriteType(ctx, m.DefiningClass),
		Name:          m.Name,
		ReturnType:    RewriteType(ctx, m.ReturnType),
		AccessFlags:   MemberAccessFlags(ctx, m.AccessFlags),
		Annotations:   RewriteAnnotations(ctx, m.Annotations),
	}
	if m.Parameters != nil {
		out.Parameters = make([]ir.MethodParameter, len(m.Parameters))
		for i, p := range m.Parameters {
			out.Parameters[i] = RewriteParameter(ctx, p)
		}
	}
	if m.Implementation != nil {
		out.Implementation = RewriteImplementation(ctx, m.Implementation)
	}
	return out
}

// RewriteParameter rewrites a method parameter. Shrinking drops its name.
func RewriteParameter(ctx Context, p ir.MethodParameter) ir.MethodParameter {
	out := ir.MethodParameter{
		Type:        RewriteType(ctx, p.Type),
		Name:        p.Name,
		Annotations: RewriteAnnotations(ctx, p.Annotations),
	}
	if ctx.Shrink {
		out.Name = ""
	}
	return out
}
