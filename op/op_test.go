package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringKnownOpcode(t *testing.T) {
	require.Equal(t, "LOAD_CONST", LoadConst.String())
	require.Equal(t, "OP_ADD", OpAdd.String())
	require.Equal(t, "GET_INDEX", GetIndex.String())
}

func TestStringUnknownOpcode(t *testing.T) {
	require.Equal(t, "UNKNOWN", Code(9999).String())
}

func TestEveryNamedOpcodeHasOperandCount(t *testing.T) {
	for code := range Names {
		if code == Invalid {
			continue
		}
		_, ok := Operands[code]
		require.True(t, ok, "opcode %s missing from Operands table", code)
	}
}
