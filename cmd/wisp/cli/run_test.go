package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/cmd/wisp/cli"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.ra")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunValidScriptSucceeds(t *testing.T) {
	path := writeScript(t, `x := 1 + 2;`)

	root := cli.NewRootCommand()
	root.SetArgs([]string{"run", path, "--no-trace"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	assert.NoError(t, root.Execute())
}

func TestRunDivisionByZeroDoesNotFail(t *testing.T) {
	path := writeScript(t, `x := 1 / 0;`)

	root := cli.NewRootCommand()
	root.SetArgs([]string{"run", path, "--no-trace"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	assert.NoError(t, err)
}

func TestRunMissingFileErrors(t *testing.T) {
	root := cli.NewRootCommand()
	root.SetArgs([]string{"run", filepath.Join(t.TempDir(), "missing.ra"), "--no-trace"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	assert.Error(t, root.Execute())
}

func TestRunRecordsFatalToTraceDB(t *testing.T) {
	path := writeScript(t, `throw "boom";`)
	dbPath := filepath.Join(t.TempDir(), "trace.db")

	root := cli.NewRootCommand()
	root.SetArgs([]string{"run", path, "--trace-db", dbPath})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	_ = root.Execute()

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestParseCommandDumpsTokens(t *testing.T) {
	path := writeScript(t, `x := 1;`)

	root := cli.NewRootCommand()
	root.SetArgs([]string{"parse", path, "--tokens"})
	var out bytes.Buffer
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "IDENT")
}

func TestRootCommandRunsFileDirectly(t *testing.T) {
	path := writeScript(t, `x := 1;`)

	root := cli.NewRootCommand()
	root.SetArgs([]string{path, "--no-trace"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	assert.NoError(t, root.Execute())
}
