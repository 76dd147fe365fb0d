package config

import (
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Settings is the resolved configuration a host passes into a run: the
// `load` search path, whether the diagnostics printer should colorize its
// output, and the source extension new files are written with.
type Settings struct {
	LibDir    string `yaml:"libDir"`
	Color     string `yaml:"color"` // "auto", "always", "never"
	SourceExt string `yaml:"sourceExt"`
}

// Default returns the settings a bare `wisp run file.ra` uses when no
// wisp.yaml is present: library search path next to the runtime binary,
// color decided by the attached terminal.
func Default() Settings {
	return Settings{
		LibDir:    defaultLibDir(),
		Color:     "auto",
		SourceExt: SourceFileExt,
	}
}

func defaultLibDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "lib"
	}
	return exe + "-lib"
}

// Load reads a wisp.yaml project file, falling back to Default for any
// field it leaves unset. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	if s.SourceExt == "" {
		s.SourceExt = SourceFileExt
	}
	return s, nil
}

// ColorEnabled resolves the Color setting against stdout's terminal state.
func (s Settings) ColorEnabled() bool {
	switch s.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return !IsTestMode && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	}
}
