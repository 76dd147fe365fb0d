// Package config carries the runtime settings a wisp process needs before
// any source file is read: where to look for `load`-ed libraries, what
// source extension to expect, and whether diagnostics should colorize.
package config

// Version is the current wisp version, set at build time via -ldflags.
var Version = "0.1.0"

// SourceFileExt is the extension load resolves a bare module name against
// (spec.md: `load "name";` includes `<searchpath>/name.ra`).
const SourceFileExt = ".ra"

// IsTestMode suppresses ANSI color and stack-trace noise during `go test`
// runs of packages that shell out to the CLI.
var IsTestMode = false

// TrimSourceExt removes a trailing .ra extension, if present.
func TrimSourceExt(name string) string {
	const ext = SourceFileExt
	if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
		return name[:len(name)-len(ext)]
	}
	return name
}

// HasSourceExt reports whether path already carries the .ra extension.
func HasSourceExt(path string) bool {
	const ext = SourceFileExt
	return len(path) >= len(ext) && path[len(path)-len(ext):] == ext
}
