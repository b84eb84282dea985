package main

import (
	"fmt"
	"os"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/spf13/cobra"

	"github.com/kiz-lang/kiz/builtins"
	"github.com/kiz-lang/kiz/compiler"
	"github.com/kiz-lang/kiz/object"
	"github.com/kiz-lang/kiz/parser"
	"github.com/kiz-lang/kiz/vm"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive kiz session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd)
	},
}

const replPrompt = "kiz> "

// runRepl implements spec.md §4.2/§6's REPL: each input line is compiled
// as an incremental extension of one persistent module code object and
// run against one persistent VM, per `extend(code_object)`. Raw-key
// line editing (arrow-free backspace/Ctrl+C handling) is read via
// atomicgo.dev/keyboard, the teacher's line-input dependency; this is a
// minimal single-line editor rather than the teacher's full history
// and multi-line continuation REPL (see DESIGN.md for the scope cut).
func runRepl(cmd *cobra.Command) error {
	globals := builtins.Install(os.Stdout, os.Stdin)
	machine := vm.New(globals)
	machine.Importer = fileLoader{}

	code := object.NewCode("<module>")
	code.IsModule = true
	wd, _ := os.Getwd()
	code.SourceDir = wd

	fmt.Println("kiz REPL — Ctrl+C to exit")

	loaded := false
	for {
		line, ok := readLine(replPrompt)
		if !ok {
			fmt.Println()
			return nil
		}
		if line == "" {
			continue
		}

		prog, err := parser.ParseString(line)
		if err != nil {
			printFatal(err)
			continue
		}

		startIP, err := compiler.ExtendModule(code, prog)
		if err != nil {
			printFatal(err)
			continue
		}

		var state *vm.State
		if !loaded {
			state, err = machine.Load(code, wd)
			loaded = true
		} else {
			state, err = machine.Extend(code, startIP)
		}
		if err != nil {
			printFatal(err)
			continue
		}
		if state.Top != nil {
			fmt.Println(state.Top.Display())
		}
	}
}

// readLine reads one line of raw keyboard input, applying backspace and
// returning ok=false on Ctrl+C or Ctrl+D.
func readLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	var buf []rune
	interrupted := false

	err := keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		switch key.Code {
		case keys.CtrlC, keys.CtrlD:
			interrupted = true
			return true, nil
		case keys.Enter:
			return true, nil
		case keys.Backspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Print("\b \b")
			}
			return false, nil
		case keys.RuneKey:
			buf = append(buf, key.Runes...)
			fmt.Print(string(key.Runes))
			return false, nil
		default:
			return false, nil
		}
	})
	fmt.Println()
	if err != nil || interrupted {
		return "", false
	}
	return string(buf), true
}
