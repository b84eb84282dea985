package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kiz-lang/kiz/builtins"
	"github.com/kiz-lang/kiz/compiler"
	"github.com/kiz-lang/kiz/parser"
	"github.com/kiz-lang/kiz/vm"
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Compile and execute a kiz source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(cmd, args[0])
	},
}

// runFile implements both `kiz <path>` and `kiz run <path>`, per spec.md
// §6's command-line surface.
func runFile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
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
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	code.Name = absPath

	globals := builtins.Install(os.Stdout, os.Stdin)
	machine := vm.New(globals)
	machine.Importer = fileLoader{}

	if _, err := machine.Load(code, filepath.Dir(absPath)); err != nil {
		printFatal(err)
		os.Exit(1)
	}
	return nil
}
