package parser

import (
	"testing"

	"github.com/wisp-lang/wisp/internal/lexer"
)

// FuzzParse feeds arbitrary byte slices through the lexer and parser looking
// for panics; a malformed program must come back as an error, never a crash.
// Grounded on funvibe-funxy's tests/fuzz FuzzParser target, cut down to
// this package's actual lexer.New/parser.New shape (no separate
// token-stream or pipeline-context types here).
func FuzzParse(f *testing.F) {
	f.Add([]byte(`x := 1 + 2;`))
	f.Add([]byte(`if (true) { x; } else { y; }`))
	f.Add([]byte(`def add(a, b) { return a + b; }`))
	f.Add([]byte(`class Point { }`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		toks, err := lexer.New(string(data), "<fuzz>").Tokenize()
		if err != nil {
			return
		}
		_, _ = New(toks, "<fuzz>").Parse()
	})
}
