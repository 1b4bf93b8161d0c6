package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/tincture/internal/config"
	"github.com/jward/tincture/internal/syntax"
)

const orderSource = `namespace Shop
{
    public class Order
    {
        private int total;

        public void SubmitAsync() { total = 1; }
    }
}
`

// fixture writes Order.cs and a configuration file into a temp dir.
func fixture(t *testing.T, cfg string) (dir, file, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "Order.cs")
	require.NoError(t, os.WriteFile(file, []byte(orderSource), 0o644))
	cfgPath = filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return dir, file, cfgPath
}

// run executes the root command with args and returns stdout and stderr.
// Flag variables are reset first since cobra keeps them between runs.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	flagConfig = config.DefaultFile
	flagDB = ""
	flagFormat = "json"
	flagLogLevel = "warn"
	flagRange = ""
	flagScript = ""
	flagSource = ""
	errorHandled = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), "invalid JSON output: %s", out)
	return result
}

func offsetOf(text string) string {
	return strconv.Itoa(strings.Index(orderSource, text))
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.cs", "sub/b.cs", "sub/deep/c.cs", "sub/notes.txt"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	got, err := expandPaths([]string{filepath.Join(dir, "**", "*.cs"), filepath.Join(dir, "a.cs")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.cs"),
		filepath.Join(dir, "sub", "b.cs"),
		filepath.Join(dir, "sub", "deep", "c.cs"),
	}, got)

	got, err = expandPaths([]string{filepath.Join(dir, "sub", "*")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "b.cs")}, got)

	_, err = expandPaths([]string{filepath.Join(dir, "*.vb")})
	assert.ErrorContains(t, err, "no files match")
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("10:5")
	require.NoError(t, err)
	assert.Equal(t, syntax.Span{Start: 10, Length: 5}, r)

	for _, bad := range []string{"10", "a:5", "10:b", "-1:5", "1:-5"} {
		_, err := parseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestClampRange(t *testing.T) {
	assert.Equal(t, syntax.NewSpan(5, 10), clampRange(syntax.Span{Start: 5, Length: 20}, 10))
	assert.Equal(t, syntax.NewSpan(10, 10), clampRange(syntax.Span{Start: 50, Length: 1}, 10))
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.ErrorContains(t, validateFormat("yaml"), "invalid format")
}

func TestMarkerStyle(t *testing.T) {
	tag, err := markerStyle("marker.symbol.2")
	require.NoError(t, err)
	assert.Equal(t, "marker.symbol.2", tag.String())

	_, err = markerStyle("marker.symbl.2")
	assert.ErrorContains(t, err, `did you mean "marker.symbol.2"`)

	_, err = markerStyle("keyword")
	assert.ErrorContains(t, err, "not a marker style")
}

func TestTags(t *testing.T) {
	out, _, err := run(t, "tags")
	require.NoError(t, err)
	result := decode(t, out)
	assert.Equal(t, "tags", result["command"])

	tags := result["results"].([]any)
	assert.EqualValues(t, len(tags), result["total_count"])
	markers := 0
	for _, raw := range tags {
		if raw.(map[string]any)["marker"] == true {
			markers++
		}
	}
	assert.Equal(t, 5, markers)
}

func TestClassify_JSON(t *testing.T) {
	_, file, cfgPath := fixture(t, "")

	out, _, err := run(t, "--config", cfgPath, "classify", file)
	require.NoError(t, err)
	result := decode(t, out)
	assert.Equal(t, "classify", result["command"])
	assert.EqualValues(t, 1, result["total_count"])

	files := result["results"].([]any)
	spans := files[0].(map[string]any)["spans"].([]any)
	require.NotEmpty(t, spans)

	found := false
	for _, raw := range spans {
		s := raw.(map[string]any)
		if s["text"] == "SubmitAsync" {
			found = true
			assert.EqualValues(t, 7, s["line"])
		}
	}
	assert.True(t, found, "SubmitAsync should be classified")
}

func TestClassify_Range(t *testing.T) {
	_, file, cfgPath := fixture(t, "")

	rng := offsetOf("Order") + ":5"
	out, _, err := run(t, "--config", cfgPath, "classify", "--range", rng, file)
	require.NoError(t, err)
	result := decode(t, out)
	spans := result["results"].([]any)[0].(map[string]any)["spans"].([]any)
	require.NotEmpty(t, spans)
	for _, raw := range spans {
		assert.Equal(t, "Order", raw.(map[string]any)["text"])
	}
}

func TestClassify_Text(t *testing.T) {
	_, file, cfgPath := fixture(t, "")

	out, _, err := run(t, "--config", cfgPath, "--format", "text", "classify", file)
	require.NoError(t, err)
	assert.Contains(t, out, file)
	assert.Contains(t, out, `"SubmitAsync"`)
}

func TestClassify_MissingFileKeepsOthers(t *testing.T) {
	dir, file, cfgPath := fixture(t, "")

	out, _, err := run(t, "--config", cfgPath, "classify", file, filepath.Join(dir, "Missing.cs"))
	require.Error(t, err)
	result := decode(t, out)
	assert.NotEmpty(t, result["error"])
	assert.EqualValues(t, 1, result["total_count"])
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := run(t, "--format", "xml", "tags")
	assert.ErrorContains(t, err, "invalid format")
}

func TestMarkers_PinListUnpin(t *testing.T) {
	dir, file, cfgPath := fixture(t, "[markers]\ndatabase = \"pins.db\"\n")

	out, _, err := run(t, "--config", cfgPath, "markers", "pin", file, offsetOf("total"), "marker.symbol.3")
	require.NoError(t, err)
	result := decode(t, out)
	pinned := result["results"].(map[string]any)
	assert.Equal(t, "Shop.Order.total", pinned["name"])
	assert.Equal(t, "marker.symbol.3", pinned["style"])
	assert.Equal(t, "manual", pinned["source"])
	assert.FileExists(t, filepath.Join(dir, "pins.db"))

	// The pin colors every reference, including the one inside SubmitAsync.
	out, _, err = run(t, "--config", cfgPath, "classify", file)
	require.NoError(t, err)
	markerSpans := 0
	for _, raw := range decode(t, out)["results"].([]any)[0].(map[string]any)["spans"].([]any) {
		s := raw.(map[string]any)
		if s["tag"] == "marker.symbol.3" {
			assert.Equal(t, "total", s["text"])
			markerSpans++
		}
	}
	assert.Equal(t, 2, markerSpans)

	out, _, err = run(t, "--config", cfgPath, "markers", "list")
	require.NoError(t, err)
	result = decode(t, out)
	assert.EqualValues(t, 1, result["total_count"])

	out, _, err = run(t, "--config", cfgPath, "markers", "unpin", file, offsetOf("total"))
	require.NoError(t, err)
	assert.Equal(t, "Shop.Order.total", decode(t, out)["results"].(map[string]any)["name"])

	out, _, err = run(t, "--config", cfgPath, "markers", "list")
	require.NoError(t, err)
	assert.EqualValues(t, 0, decode(t, out)["total_count"])
}

func TestMarkers_PinErrors(t *testing.T) {
	_, file, cfgPath := fixture(t, "")
	db := filepath.Join(t.TempDir(), "pins.db")

	out, _, err := run(t, "--config", cfgPath, "--db", db, "markers", "pin", file, offsetOf("total"), "keyword")
	require.Error(t, err)
	assert.Contains(t, decode(t, out)["error"], "not a marker style")

	out, _, err = run(t, "--config", cfgPath, "--db", db, "markers", "pin", file, "abc", "marker.symbol")
	require.Error(t, err)
	assert.Contains(t, decode(t, out)["error"], "invalid offset")

	past := strconv.Itoa(len(orderSource) + 10)
	_, _, err = run(t, "--config", cfgPath, "--db", db, "markers", "pin", file, past, "marker.symbol")
	assert.ErrorContains(t, err, "no symbol")
}

func TestMarkers_ApplyRules(t *testing.T) {
	dir, _, cfgPath := fixture(t, `
[[markers.rules]]
pattern = "*Async"
kind = "method"
style = "marker.symbol.1"
`)

	out, _, err := run(t, "--config", cfgPath, "markers", "apply", filepath.Join(dir, "*.cs"))
	require.NoError(t, err)
	result := decode(t, out)
	apply := result["results"].(map[string]any)
	assert.Equal(t, "rules", apply["source"])
	assert.EqualValues(t, 1, apply["files"])
	assert.EqualValues(t, 1, apply["pinned"])
	assert.NotEmpty(t, apply["rules_hash"])

	out, _, err = run(t, "--config", cfgPath, "--format", "text", "markers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SubmitAsync")
	assert.Contains(t, out, "rules")
}

func TestMarkers_ApplyScript(t *testing.T) {
	dir, file, cfgPath := fixture(t, "")
	script := filepath.Join(dir, "fields.risor")
	require.NoError(t, os.WriteFile(script, []byte(`
for _, s := range symbols("field") {
    mark(s, "marker.symbol.2")
}
`), 0o644))

	out, _, err := run(t, "--config", cfgPath, "--format", "text", "markers", "apply", "--script", script, file)
	require.NoError(t, err)
	assert.Contains(t, out, "Pinned 1 of")
	assert.Contains(t, out, "script:")
}

func TestMarkers_ListFiltersAndClear(t *testing.T) {
	dir, file, cfgPath := fixture(t, `
[[markers.rules]]
pattern = "*Async"
style = "marker.symbol.1"
`)

	_, _, err := run(t, "--config", cfgPath, "markers", "apply", file)
	require.NoError(t, err)
	_, _, err = run(t, "--config", cfgPath, "markers", "pin", file, offsetOf("total"), "marker.symbol")
	require.NoError(t, err)

	out, _, err := run(t, "--config", cfgPath, "markers", "list", "--source", "manual")
	require.NoError(t, err)
	result := decode(t, out)
	require.EqualValues(t, 1, result["total_count"])
	assert.Equal(t, "Shop.Order.total", result["results"].([]any)[0].(map[string]any)["name"])

	out, _, err = run(t, "--config", cfgPath, "markers", "list", filepath.Join(dir, "*.cs"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, decode(t, out)["total_count"])

	_, _, err = run(t, "--config", cfgPath, "markers", "clear")
	assert.ErrorContains(t, err, "--source is required")

	out, _, err = run(t, "--config", cfgPath, "markers", "clear", "--source", "rules")
	require.NoError(t, err)
	assert.EqualValues(t, 1, decode(t, out)["results"].(map[string]any)["removed"])

	out, _, err = run(t, "--config", cfgPath, "markers", "list")
	require.NoError(t, err)
	assert.EqualValues(t, 1, decode(t, out)["total_count"])
}
