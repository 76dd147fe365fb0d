package embed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisp-lang/wisp/pkg/embed"
)

func TestBindFunctionAndEval(t *testing.T) {
	rt := embed.New()
	require.NoError(t, rt.Bind("double", func(x int) int { return x * 2 }))

	res, err := rt.Eval("double(21);")
	require.NoError(t, err)
	assert.Equal(t, 42, res)
}

func TestBindVoidFunctionSideEffect(t *testing.T) {
	rt := embed.New()
	called := false
	require.NoError(t, rt.Bind("sideEffect", func() { called = true }))

	_, err := rt.Eval("sideEffect();")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestSetAndGet(t *testing.T) {
	rt := embed.New()
	require.NoError(t, rt.Set("myValue", 42))

	res, err := rt.Get("myValue")
	require.NoError(t, err)
	assert.Equal(t, 42, res)
}

func TestGetNonExistent(t *testing.T) {
	rt := embed.New()
	_, err := rt.Get("undefinedVar")
	assert.Error(t, err)
}

func TestLoadFileAndCall(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "funcs.ra")
	require.NoError(t, os.WriteFile(script, []byte(`def greet(name) { return "Hello, " + name + "!"; }`), 0o644))

	rt := embed.New()
	require.NoError(t, rt.LoadFile(script))

	res, err := rt.Call("greet", "World")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", res)
}

func TestCallNonExistentFunction(t *testing.T) {
	rt := embed.New()
	_, err := rt.Call("nonexistent", 1, 2)
	assert.Error(t, err)
}

func TestMultipleBindingsInteract(t *testing.T) {
	rt := embed.New()
	var logs []string
	require.NoError(t, rt.Bind("logger", func(msg string) { logs = append(logs, msg) }))
	require.NoError(t, rt.Bind("add", func(a, b int) int { return a + b }))

	_, err := rt.Eval(`
		logger("Starting");
		sum := add(5, 3);
		logger("Sum: " + sum);
		logger("Done");
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Starting", "Sum: 8", "Done"}, logs)
}

func TestEvalError(t *testing.T) {
	rt := embed.New()
	_, err := rt.Eval("1 + + 2;")
	assert.Error(t, err)
}

func TestBindFuncReturningSlice(t *testing.T) {
	rt := embed.New()
	require.NoError(t, rt.Bind("getList", func() []int { return []int{1, 2, 3} }))

	res, err := rt.Eval("getList();")
	require.NoError(t, err)
	list, ok := res.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 3)
}

func TestSetGoMapStringString(t *testing.T) {
	rt := embed.New()
	headers := map[string]string{"Content-Type": "application/json"}
	require.NoError(t, rt.Set("headers", headers))

	res, err := rt.Get("headers")
	require.NoError(t, err)
	m, ok := res.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "application/json", m["Content-Type"])
}
