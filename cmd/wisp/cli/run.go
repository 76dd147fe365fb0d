package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wisp-lang/wisp/internal/config"
	"github.com/wisp-lang/wisp/internal/diagnostics"
	"github.com/wisp-lang/wisp/internal/evaluator"
	"github.com/wisp-lang/wisp/internal/ext"
	"github.com/wisp-lang/wisp/internal/lexer"
	"github.com/wisp-lang/wisp/internal/loader"
	"github.com/wisp-lang/wisp/internal/parser"
	"github.com/wisp-lang/wisp/internal/tracelog"
)

// runOptions collects the flags shared by the root command and its `run`
// alias.
type runOptions struct {
	configPath string
	libDir     string
	traceDB    string
	noTrace    bool
}

func registerRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "wisp.yaml", "project config file")
	cmd.Flags().StringVar(&opts.libDir, "lib-dir", "", "override the `load` library search path")
	cmd.Flags().StringVar(&opts.traceDB, "trace-db", defaultTraceDBPath(), "sqlite path fatal errors are recorded to")
	cmd.Flags().BoolVar(&opts.noTrace, "no-trace", false, "disable fatal-error tracelog recording")
}

func defaultTraceDBPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wisp", "tracelog.db")
	}
	return filepath.Join(os.TempDir(), "wisp-tracelog.db")
}

// newRunCommand is `wisp run <file>`, identical to invoking the root
// command with a file argument -- kept as an explicit subcommand so
// `wisp run` reads naturally alongside `wisp parse`.
func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Lex, parse, and evaluate a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, args[0], opts)
		},
	}
	registerRunFlags(cmd, opts)
	return cmd
}

func runFile(cmd *cobra.Command, path string, opts *runOptions) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("wisp: %w", err)
	}
	if opts.libDir != "" {
		settings.LibDir = opts.libDir
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wisp: %w", err)
	}

	toks, err := lexer.New(string(data), path).Tokenize()
	if err != nil {
		return reportFatal(cmd, settings, err)
	}
	prog, err := parser.New(toks, path).Parse()
	if err != nil {
		return reportFatal(cmd, settings, err)
	}

	ld := loader.New(settings.LibDir)
	prog, err = ld.Expand(prog, filepath.Dir(path))
	if err != nil {
		return reportFatal(cmd, settings, err)
	}

	instrs, err := evaluator.Compile(prog)
	if err != nil {
		return reportFatal(cmd, settings, err)
	}

	global := evaluator.NewScope(evaluator.Bounded, nil)
	ev := evaluator.New(global)
	ev.ParseFunc = loader.ParseFunc(settings.LibDir)
	ev.Extern = ext.NewHost(envResolver)

	var log *tracelog.Log
	if !opts.noTrace {
		log, err = tracelog.Open(opts.traceDB)
		if err != nil {
			return fmt.Errorf("wisp: %w", err)
		}
		defer log.Close()
		ev.Hooks.OnFatal = log.OnFatal
	}

	if _, err := ev.EvalProgram(instrs); err != nil {
		return reportFatal(cmd, settings, err)
	}
	return nil
}

// envResolver resolves a library named by `extern "name";` to a dial
// target through the WISP_EXT_<NAME> environment variable, the simplest
// binding a host process can offer without a registry service of its own.
func envResolver(library string) (string, error) {
	if target := os.Getenv("WISP_EXT_" + library); target != "" {
		return target, nil
	}
	return "", fmt.Errorf("no dial target configured for extern library %q (set WISP_EXT_%s)", library, library)
}

// reportFatal prints a diagnostics.Fatal (or any other error the pipeline
// raised before one could be constructed) and turns it into the generic
// error cobra prints once at the top level.
func reportFatal(cmd *cobra.Command, settings config.Settings, err error) error {
	if f, ok := err.(*diagnostics.Fatal); ok {
		p := diagnostics.NewPrinter(cmd.ErrOrStderr())
		p.ForceColor = settings.ColorEnabled()
		p.Print(f)
		return fmt.Errorf("wisp: run failed")
	}
	return fmt.Errorf("wisp: %w", err)
}
