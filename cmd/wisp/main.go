// Command wisp runs a .ra source file: lex, parse, expand `load`
// statements, compile, and evaluate it against a fresh global scope,
// printing any uncaught diagnostics.Fatal to stderr and exiting 1.
//
// Responsibility list (load a file, optionally dump intermediate
// representations, run, report, exit) follows funvibe-funxy's
// cmd/funxy/main.go, rebuilt on github.com/spf13/cobra rather than the
// stdlib flag package: this CLI is kept minimal, wired directly to the
// lexer/parser/evaluator/loader/ext/tracelog packages rather than a
// VM/module/analyzer pipeline this runtime doesn't have.
package main

import (
	"fmt"
	"os"

	"github.com/wisp-lang/wisp/cmd/wisp/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
