// Package dis disassembles kiz bytecode into a human-readable listing,
// for the `kiz dis` debug subcommand. Shape (an Instruction slice plus a
// tabular Print) follows the teacher's pkg/dis package; the teacher's
// internal table-rendering helper and its wonton/color dependency are
// not part of this module's dependency graph (see DESIGN.md), so
// Print renders its own fixed-width columns and reuses fatih/color,
// already a direct dependency, for highlighting.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/op"
)

// Instruction is one disassembled bytecode instruction.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []uint16
	Annotation string
}

// Disassemble walks code's instruction stream and annotates operands
// that index into the constant pool or name table with their value.
func Disassemble(code *object.Code) []Instruction {
	out := make([]Instruction, 0, len(code.Instructions))
	for offset, instr := range code.Instructions {
		var annotation string
		switch instr.Op {
		case op.LoadConst:
			annotation = annotateConstant(code, instr.Operands[0])
		case op.LoadVar, op.SetLocal, op.SetNonlocal, op.SetGlobal, op.GetAttr, op.SetAttr, op.Import:
			annotation = annotateName(code, instr.Operands[0])
		}
		out = append(out, Instruction{
			Offset:     offset,
			Name:       instr.Op.String(),
			Opcode:     instr.Op,
			Operands:   instr.Operands,
			Annotation: annotation,
		})
	}
	return out
}

func annotateConstant(code *object.Code, idx uint16) string {
	if int(idx) >= len(code.Constants) {
		return ""
	}
	c := code.Constants[idx]
	if fn, ok := c.(*object.Function); ok {
		name := fn.Name
		if name == "" {
			name = "<anonymous>"
		}
		return "func:" + name
	}
	return c.Display()
}

func annotateName(code *object.Code, idx uint16) string {
	if int(idx) >= len(code.Names) {
		return ""
	}
	return code.Names[idx]
}

// Print renders instructions as a fixed-width table to w, mirroring the
// teacher's OFFSET/OPCODE/OPERANDS/INFO columns.
func Print(instructions []Instruction, w io.Writer) {
	rows := make([][4]string, 0, len(instructions))
	widths := [4]int{len("OFFSET"), len("OPCODE"), len("OPERANDS"), len("INFO")}
	for _, instr := range instructions {
		row := [4]string{
			fmt.Sprintf("%d", instr.Offset),
			instr.Name,
			formatOperands(instr.Operands),
			instr.Annotation,
		}
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		rows = append(rows, row)
	}

	printRule(w, widths)
	printRow(w, widths, [4]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}, true)
	printRule(w, widths)
	for _, row := range rows {
		printRow(w, widths, row, false)
	}
	printRule(w, widths)
}

func printRule(w io.Writer, widths [4]int) {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, width := range widths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteByte('+')
	}
	fmt.Fprintln(w, sb.String())
}

func printRow(w io.Writer, widths [4]int, cells [4]string, header bool) {
	var sb strings.Builder
	sb.WriteByte('|')
	for i, cell := range cells {
		text := cell
		if header {
			text = color.New(color.Bold).Sprint(cell)
		} else if i == 1 {
			text = color.New(color.Bold).Sprint(cell)
		} else if i == 3 && cell != "" {
			text = color.CyanString(cell)
		}
		pad := widths[i] - len(cell)
		fmt.Fprintf(&sb, " %s%s |", text, strings.Repeat(" ", pad))
	}
	fmt.Fprintln(w, sb.String())
}

func formatOperands(operands []uint16) string {
	var sb strings.Builder
	for i, o := range operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", o)
	}
	return sb.String()
}
