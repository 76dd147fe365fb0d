package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wisp-lang/wisp/internal/lexer"
	"github.com/wisp-lang/wisp/internal/parser"
)

// newParseCommand is `wisp parse <file>`: lex and parse a script without
// evaluating it, dumping whichever intermediate representation was asked
// for. Useful for debugging the lexer/parser in isolation, the same role
// funvibe-funxy's -dump-tokens/-dump-ast flags served.
func newParseCommand() *cobra.Command {
	var showTokens, showAST bool
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Lex and parse a script without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("wisp: %w", err)
			}
			toks, err := lexer.New(string(data), args[0]).Tokenize()
			if err != nil {
				return fmt.Errorf("wisp: %w", err)
			}
			if showTokens {
				for _, tok := range toks {
					fmt.Fprintf(cmd.OutOrStdout(), "%-4d:%-4d %-16s %q\n", tok.Line, tok.Column, tok.Type, tok.Lexeme)
				}
			}
			prog, err := parser.New(toks, args[0]).Parse()
			if err != nil {
				return fmt.Errorf("wisp: %w", err)
			}
			if showAST {
				for _, st := range prog.Statements {
					fmt.Fprintf(cmd.OutOrStdout(), "%#v\n", st)
				}
			}
			if !showTokens && !showAST {
				fmt.Fprintf(cmd.OutOrStdout(), "parsed %d statement(s) OK\n", len(prog.Statements))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTokens, "tokens", false, "dump the token stream")
	cmd.Flags().BoolVar(&showAST, "ast", false, "dump the parsed statement tree")
	return cmd
}
