package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kiz-lang/kiz/errz"
)

func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

// printFatal renders a compile- or runtime-error the way spec.md §7
// requires: printed in color with its source location, process-fatal.
func printFatal(err error) {
	fmt.Fprintln(os.Stderr, errz.Format(err, useColor()))
}
