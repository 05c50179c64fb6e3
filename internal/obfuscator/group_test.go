package obfuscator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/ir"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
)

func splitSample(t *testing.T) [][]byte {
	t.Helper()
	classes := sampleFile().Classes
	return [][]byte{
		encode(t, &ir.File{Classes: classes[:2]}),
		encode(t, &ir.File{Classes: classes[2:]}),
	}
}

func TestGroupEditor_SharedMapping(t *testing.T) {
	e, err := obfuscator.NewGroupEditor(splitSample(t), container.NewYAML(), obfuscator.Options{
		Generator: scrambler.NewSeeded(5),
		Silent:    true,
	})
	require.NoError(t, err)
	e.EnableObfuscation(21)

	outputs, err := e.ExecuteAll()
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	first, second := decode(t, outputs[0]), decode(t, outputs[1])
	require.Len(t, first.Classes, 2)
	require.Len(t, second.Classes, 1)

	base := e.Mappings()["Lcom/app/Base;"]
	assert.Equal(t, base, first.Classes[1].Type)
	assert.Equal(t, base, second.Classes[0].SuperClass, "cross-container reference uses the same name")
}

func TestGroupEditor_DuplicateClass(t *testing.T) {
	one := encode(t, sampleFile())
	_, err := obfuscator.NewGroupEditor([][]byte{one, one}, container.NewYAML(), obfuscator.Options{Silent: true})

	var perr *container.ParseError
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, container.ErrMalformed)
	assert.Contains(t, err.Error(), "Lcom/app/Keep;")
}

func TestGroupEditor_MalformedInput(t *testing.T) {
	_, err := obfuscator.NewGroupEditor([][]byte{encode(t, sampleFile()), []byte("")}, container.NewYAML(), obfuscator.Options{Silent: true})
	var perr *container.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "input #1")
}

func TestExecuteAll_SingleInput(t *testing.T) {
	e := newEditor(t, 1)
	outputs, err := e.ExecuteAll()
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	single, err := e.Execute()
	require.NoError(t, err)
	assert.Equal(t, single, outputs[0])
}
