package obfuscator

import (
	"fmt"

	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/ir"
)

// NewGroupEditor decodes several containers of one application and treats
// their classes as a single graph, so a class referenced from another
// container resolves to the same replacement everywhere. ExecuteAll
// returns one output per input, in input order.
func NewGroupEditor(inputs [][]byte, codec container.Codec, opts Options) (*Editor, error) {
	files := make([]*ir.File, len(inputs))
	for i, input := range inputs {
		f, err := codec.Decode(input)
		if err != nil {
			return nil, fmt.Errorf("input #%d: %w", i, err)
		}
		files[i] = f
	}

	merged, parts, err := mergeFiles(files)
	if err != nil {
		return nil, err
	}
	e, err := NewEditorForFile(merged, codec, opts)
	if err != nil {
		return nil, err
	}
	e.parts = parts
	return e, nil
}

// ExecuteAll rewrites the group and encodes each part separately. An
// Editor built from a single input yields a single output.
func (e *Editor) ExecuteAll() ([][]byte, error) {
	out := e.Rewrite()

	parts := e.parts
	if parts == nil {
		parts = []int{len(out.Classes)}
	}
	outputs := make([][]byte, 0, len(parts))
	start := 0
	for i, n := range parts {
		part := &ir.File{Classes: out.Classes[start : start+n]}
		start += n

		data, err := e.codec.Encode(part)
		if err != nil {
			return nil, fmt.Errorf("output #%d: %w", i, err)
		}
		outputs = append(outputs, data)
	}
	return outputs, nil
}

func mergeFiles(files []*ir.File) (*ir.File, []int, error) {
	merged := &ir.File{}
	parts := make([]int, len(files))
	owner := make(map[string]int)
	for i, f := range files {
		for _, c := range f.Classes {
			if prev, dup := owner[c.Type]; dup {
				return nil, nil, &container.ParseError{
					Err: fmt.Errorf("%w: class %s defined in inputs #%d and #%d", container.ErrMalformed, c.Type, prev, i),
				}
			}
			owner[c.Type] = i
		}
		merged.Classes = append(merged.Classes, f.Classes...)
		parts[i] = len(f.Classes)
	}
	return merged, parts, nil
}
