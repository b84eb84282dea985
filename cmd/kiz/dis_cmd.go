package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kiz-lang/kiz/compiler"
	"github.com/kiz-lang/kiz/dis"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/parser"
)

var disCmd = &cobra.Command{
	Use:   "dis <path>",
	Short: "Disassemble a kiz source file's compiled bytecode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			printFatal(err)
			os.Exit(1)
		}
		prog, err := parser.ParseString(string(data))
		if err != nil {
			printFatal(err)
			os.Exit(1)
		}
		code, err := compiler.CompileModule(prog)
		if err != nil {
			printFatal(err)
			os.Exit(1)
		}
		printDisassembly(code, os.Stdout)
		return nil
	},
}

// printDisassembly recursively lists a code object's instructions,
// followed by every nested function found in its constant pool.
func printDisassembly(code *object.Code, out *os.File) {
	instructions := dis.Disassemble(code)
	dis.Print(instructions, out)
	for _, c := range code.Constants {
		if fn, ok := c.(*object.Function); ok {
			name := fn.Name
			if name == "" {
				name = "<anonymous>"
			}
			out.WriteString("\n" + name + ":\n")
			printDisassembly(fn.Code, out)
		}
	}
}
