package errz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileErrorFormatsLocation(t *testing.T) {
	err := NewCompileError(SourceLocation{Line: 3, Column: 7}, "unexpected token %s", "+")
	require.Equal(t, "compile error at 3:7: unexpected token +", err.Error())
}

func TestRuntimeErrorWithoutLocation(t *testing.T) {
	err := NewRuntimeError("division by zero")
	require.Equal(t, "runtime error: division by zero", err.Error())
}

func TestRuntimeErrorWithLocation(t *testing.T) {
	err := NewRuntimeError("undefined variable %q", "foo").WithLocation(SourceLocation{Line: 5, Column: 1})
	require.Equal(t, "runtime error at 5:1: undefined variable \"foo\"", err.Error())
}

func TestFormatPlainVsColor(t *testing.T) {
	err := NewRuntimeError("boom")
	plain := Format(err, false)
	require.Equal(t, "runtime error: boom", plain)

	colored := Format(err, true)
	require.Contains(t, colored, "boom")
}
