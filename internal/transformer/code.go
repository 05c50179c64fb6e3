package transformer

import (
	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// RewriteImplementation rewrites a method body. Shrinking empties the debug
// item stream, removing line numbers and local variable names.
func RewriteImplementation(ctx Context, impl *ir.MethodImplementation) *ir.MethodImplementation {
	out := &ir.MethodImplementation{RegisterCount: impl.RegisterCount}
	if impl.Instructions != nil {
		out.Instructions = make([]ir.Instruction, len(impl.Instructions))
		for i, insn := range impl.Instructions {
			out.Instructions[i] = RewriteInstruction(ctx, insn)
		}
	}
	if impl.TryBlocks != nil {
		out.TryBlocks = make([]ir.TryBlock, len(impl.TryBlocks))
		for i, tb := range impl.TryBlocks {
			out.TryBlocks[i] = rewriteTryBlock(ctx, tb)
		}
	}
	if !ctx.Shrink && impl.DebugItems != nil {
		out.DebugItems = make([]ir.DebugItem, len(impl.DebugItems))
		for i, item := range impl.DebugItems {
			item.Type = RewriteType(ctx, item.Type)
			out.DebugItems[i] = item
		}
	}
	return out
}

func rewriteTryBlock(ctx Context, tb ir.TryBlock) ir.TryBlock {
	out := ir.TryBlock{StartAddress: tb.StartAddress, CodeUnitCount: tb.CodeUnitCount}
	if tb.Handlers != nil {
		out.Handlers = make([]ir.ExceptionHandler, len(tb.Handlers))
		for i, h := range tb.Handlers {
			out.Handlers[i] = ir.ExceptionHandler{
				ExceptionType:  RewriteType(ctx, h.ExceptionType),
				HandlerAddress: h.HandlerAddress,
			}
		}
	}
	return out
}

// RewriteInstruction rewrites the reference an instruction carries, if
// any. String constants loaded by const-string (21c) and
// const-string/jumbo (31c) are replaced when the string table has an exact
// match; all other references go through RewriteReference.
func RewriteInstruction(ctx Context, insn ir.Instruction) ir.Instruction {
	if insn.Reference == nil {
		return insn
	}
	switch insn.Format {
	case ir.Format21c, ir.Format31c:
		if insn.Reference.Kind == ir.StringRef {
			if repl, ok := ctx.Strings.Replacement(insn.Reference.String); ok {
				insn.Reference = ir.NewStringReference(repl)
				return insn
			}
		}
	}
	insn.Reference = RewriteReference(ctx, insn.Reference)
	return insn
}

// RewriteReference resolves the type descriptors inside a pool reference.
// String references are returned unchanged.
func RewriteReference(ctx Context, ref *ir.Reference) *ir.Reference {
	switch ref.Kind {
	case ir.TypeRef:
		return &ir.Reference{Kind: ir.TypeRef, Type: RewriteType(ctx, ref.Type)}
	case ir.FieldRef:
		return &ir.Reference{
			Kind:          ir.FieldRef,
			DefiningClass: RewriteType(ctx, ref.DefiningClass),
			Name:          ref.Name,
			Type:          RewriteType(ctx, ref.Type),
		}
	case ir.MethodRef:
		return &ir.Reference{
			Kind:           ir.MethodRef,
			DefiningClass:  RewriteType(ctx, ref.DefiningClass),
			Name:           ref.Name,
			ParameterTypes: rewriteTypes(ctx, ref.ParameterTypes),
			ReturnType:     RewriteType(ctx, ref.ReturnType),
		}
	}
	return ref
}
