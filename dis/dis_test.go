package dis

import (
	"bytes"
	"testing"

	"github.com/kiz-lang/kiz/compiler"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/op"
	"github.com/kiz-lang/kiz/parser"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *object.Code {
	t.Helper()
	prog, err := parser.ParseString(src)
	require.NoError(t, err)
	code, err := compiler.CompileModule(prog)
	require.NoError(t, err)
	return code
}

func TestDisassembleAnnotatesConstant(t *testing.T) {
	code := compile(t, "1 + 2")
	instrs := Disassemble(code)

	var found bool
	for _, instr := range instrs {
		if instr.Opcode == op.LoadConst {
			found = true
			require.Equal(t, "1", instr.Annotation)
			break
		}
	}
	require.True(t, found, "expected at least one LOAD_CONST instruction")
}

func TestDisassembleAnnotatesVariableName(t *testing.T) {
	code := compile(t, `
	var x = 1
	x
	`)
	instrs := Disassemble(code)

	var sawSetName, sawLoadName bool
	for _, instr := range instrs {
		switch instr.Opcode {
		case op.SetGlobal, op.SetLocal, op.SetNonlocal:
			if instr.Annotation == "x" {
				sawSetName = true
			}
		case op.LoadVar:
			if instr.Annotation == "x" {
				sawLoadName = true
			}
		}
	}
	require.True(t, sawSetName, "expected a SET_* instruction annotated with variable name x")
	require.True(t, sawLoadName, "expected a LOAD_VAR instruction annotated with variable name x")
}

func TestDisassembleAnnotatesNestedFunctionConstant(t *testing.T) {
	code := compile(t, `
	func add(a, b)
		return a + b
	end
	add(1, 2)
	`)
	instrs := Disassemble(code)

	var found bool
	for _, instr := range instrs {
		if instr.Opcode == op.LoadConst && instr.Annotation == "func:add" {
			found = true
		}
	}
	require.True(t, found, "expected a LOAD_CONST instruction annotated func:add")
}

func TestDisassembleOffsetsAreSequential(t *testing.T) {
	code := compile(t, "1 + 2 * 3")
	instrs := Disassemble(code)
	for i, instr := range instrs {
		require.Equal(t, i, instr.Offset)
	}
}

func TestDisassembleSkipsAnnotationForOutOfRangeOperand(t *testing.T) {
	code := object.NewCode("<module>")
	code.Instructions = append(code.Instructions, object.Instruction{
		Op:       op.LoadConst,
		Operands: []uint16{0},
	})
	instrs := Disassemble(code)
	require.Len(t, instrs, 1)
	require.Equal(t, "", instrs[0].Annotation)
}

func TestPrintRendersTableWithHeaderAndRule(t *testing.T) {
	code := compile(t, "1 + 2")
	instrs := Disassemble(code)

	var buf bytes.Buffer
	Print(instrs, &buf)

	out := buf.String()
	require.Contains(t, out, "OFFSET")
	require.Contains(t, out, "OPCODE")
	require.Contains(t, out, "OPERANDS")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "LOAD_CONST")

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	require.Equal(t, len(instrs)+4, lines, "header rule + header + header rule + one row per instruction + closing rule")
}

func TestFormatOperandsJoinsWithComma(t *testing.T) {
	require.Equal(t, "", formatOperands(nil))
	require.Equal(t, "3", formatOperands([]uint16{3}))
	require.Equal(t, "3, 7", formatOperands([]uint16{3, 7}))
}
