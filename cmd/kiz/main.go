// Command kiz is the kiz language CLI: run a script, drop into a REPL,
// or disassemble compiled bytecode, per spec.md §6's command-line
// surface. Subcommand wiring follows the teacher's cmd/surge package
// (cobra-based); the teacher itself (deepnoodle-ai/wonton/cli) is not
// in the retrieved pack, so vovakirdan-surge's cobra convention is used
// instead (see DESIGN.md).
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "kiz [path]",
	Short:         "kiz is a small dynamically-typed scripting language",
	Long:          `kiz compiles and executes .kiz source files, or starts an interactive REPL when given none.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runRepl(cmd)
		}
		return runFile(cmd, args[0])
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose VM trace logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.TraceLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
		zerolog.SetGlobalLevel(level)
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(disCmd)

	if err := rootCmd.Execute(); err != nil {
		printFatal(err)
		os.Exit(1)
	}
}
