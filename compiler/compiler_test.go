package compiler

import (
	"testing"

	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/parser"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *object.Code {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	code, err := CompileModule(prog)
	require.NoError(t, err)
	return code
}

func TestConstantDeduplication(t *testing.T) {
	code := compile(t, `
	var a = 5
	var b = 5
	var c = "x"
	var d = "x"
	`)
	require.Len(t, code.Constants, 2)
}

func TestNameTableDeduplication(t *testing.T) {
	code := compile(t, `
	var x = 1
	x = 2
	var y = x
	`)
	var count int
	for _, n := range code.Names {
		if n == "x" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestExtendModuleAppendsAfterPriorInstructions(t *testing.T) {
	code := object.NewCode("<module>")
	code.IsModule = true

	prog1, err := parser.ParseString("var x = 1")
	require.NoError(t, err)
	startIP1, err := ExtendModule(code, prog1)
	require.NoError(t, err)
	require.Equal(t, 0, startIP1)
	require.Greater(t, len(code.Instructions), 0)

	prevLen := len(code.Instructions)
	prog2, err := parser.ParseString("x + 1")
	require.NoError(t, err)
	startIP2, err := ExtendModule(code, prog2)
	require.NoError(t, err)
	require.Equal(t, prevLen, startIP2)
	require.Greater(t, len(code.Instructions), prevLen)
}

func TestCompileErrorBreakOutsideLoop(t *testing.T) {
	prog, err := parser.ParseString("break")
	require.NoError(t, err)
	_, err = CompileModule(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "outside of a while loop")
}
