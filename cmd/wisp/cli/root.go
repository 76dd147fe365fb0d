// Package cli assembles wisp's cobra command tree. Split out of package
// main so this package's run_test.go can exercise NewRootCommand directly
// instead of shelling out to a built binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/wisp-lang/wisp/internal/config"
)

// NewRootCommand returns the `wisp` command tree: running it directly
// with a script path is equivalent to `wisp run <path>`.
func NewRootCommand() *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:           "wisp <file>",
		Short:         "Run a wisp script",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, args[0], opts)
		},
	}
	registerRunFlags(root, opts)

	root.AddCommand(newRunCommand(), newParseCommand())
	return root
}
