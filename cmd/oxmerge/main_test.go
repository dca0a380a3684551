package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oxmerge/internal/driver"
)

const (
	fooCore = `using System;

namespace Oxide.Plugins
{
    [Info("Foo", "me", "1.0.0")]
    public partial class Foo : RustPlugin
    {
        private int A;
    }
}
`
	fooHooks = `namespace Oxide.Plugins
{
    partial class Foo
    {
        private void OnServerInitialized()
        {
        }
    }
}
`
	badPlugin = "namespace Oxide.Plugins { class Bad : RustPlugin { } }\n"
)

func fixture(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

// run executes the CLI with deterministic global flags and returns the exit
// status with captured output.
func run(t *testing.T, root string, args ...string) (int, string, string) {
	t.Helper()
	cfg := filepath.Join(root, "oxmerge.toml")
	if _, err := os.Stat(cfg); err != nil {
		require.NoError(t, os.WriteFile(cfg, []byte("display_limit = 15\n"), 0o644))
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	full := append([]string{"--color", "off", "--config", cfg}, args...)
	code := execute(cmd, full)
	return code, stdout.String(), stderr.String()
}

func TestMergeWritesOutput(t *testing.T) {
	root := fixture(t, map[string]string{
		"plugins/Foo/Foo.Core.cs":  fooCore,
		"plugins/Foo/Foo.Hooks.cs": fooHooks,
	})

	code, out, errOut := run(t, root, "merge", root, "--ui", "off")
	require.Equal(t, 0, code, "stderr: %s", errOut)
	assert.Contains(t, out, "✅ MERGED Foo → build/Foo.cs")
	assert.Contains(t, out, "📋 MERGE SUMMARY")
	assert.Contains(t, out, "Successfully merged: 1")

	data, err := os.ReadFile(filepath.Join(root, "build", "Foo.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "public class Foo : RustPlugin")
	assert.NotContains(t, string(data), "partial")

	code, out, _ = run(t, root, "merge", root, "--ui", "off")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "(unchanged)")
}

func TestCheckReportsRejectedPlugin(t *testing.T) {
	root := fixture(t, map[string]string{
		"plugins/Foo/Foo.Core.cs":  fooCore,
		"plugins/Foo/Foo.Hooks.cs": fooHooks,
		"plugins/Bad/Bad.cs":       badPlugin,
	})

	code, out, _ := run(t, root, "check", root, "--ui", "off")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "RBP002")
	assert.Contains(t, out, "⏭️  SKIP Bad: 1 new error(s)")
	assert.Contains(t, out, "✅ OK Foo")
	assert.Contains(t, out, "Ready to merge: 1")
	assert.NoDirExists(t, filepath.Join(root, "build"))
}

func TestDiagnosticsSkipPlugin(t *testing.T) {
	root := fixture(t, map[string]string{
		"plugins/Foo/Foo.Core.cs":  fooCore,
		"plugins/Foo/Foo.Hooks.cs": fooHooks,
	})
	core := filepath.Join(root, "plugins", "Foo", "Foo.Core.cs")
	log := core + "(8,21): error CS0103: The name 'B' does not exist in the current context [Foo.csproj]\n"
	logPath := filepath.Join(root, "build.log")
	require.NoError(t, os.WriteFile(logPath, []byte(log), 0o644))

	code, out, _ := run(t, root, "merge", root, "--ui", "off", "--diagnostics", logPath)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Displaying issues for Level 0")
	assert.Contains(t, out, "CS0103")
	assert.Contains(t, out, "Total: 1 errors, 0 warnings.")
	assert.Contains(t, out, "⏭️  SKIP Foo: 1 errors")
	assert.NoFileExists(t, filepath.Join(root, "build", "Foo.cs"))
}

func TestMergeJSON(t *testing.T) {
	root := fixture(t, map[string]string{
		"plugins/Foo/Foo.Core.cs":  fooCore,
		"plugins/Foo/Foo.Hooks.cs": fooHooks,
		"plugins/Bad/Bad.cs":       badPlugin,
	})

	code, out, _ := run(t, root, "merge", root, "--format", "json", "--timings")
	assert.Equal(t, 1, code)

	var payload runPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "merge", payload.Mode)
	require.Len(t, payload.Plugins, 2)
	byName := map[string]pluginPayload{}
	for _, p := range payload.Plugins {
		byName[p.Name] = p
	}
	assert.Equal(t, "merged", byName["Foo"].State)
	assert.Equal(t, "written", byName["Foo"].Write)
	assert.Equal(t, "rejected(missing-partial)", byName["Bad"].State)
	require.NotEmpty(t, byName["Bad"].Diagnostics)
	assert.Equal(t, "RBP002", byName["Bad"].Diagnostics[0].Code)
	assert.Equal(t, 1, payload.Summary.Skipped)
	assert.NotEmpty(t, payload.Timings)
}

func TestPluginArgument(t *testing.T) {
	root := fixture(t, map[string]string{
		"plugins/Foo/Foo.Core.cs":  fooCore,
		"plugins/Foo/Foo.Hooks.cs": fooHooks,
		"plugins/Bad/Bad.cs":       badPlugin,
	})

	code, out, _ := run(t, root, "check", root, "foo", "--ui", "off")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Plugins processed: 1")

	code, _, errOut := run(t, root, "check", root, "Nope", "--ui", "off")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "plugin not found")
}

func TestScan(t *testing.T) {
	root := fixture(t, map[string]string{"Foo.cs": fooCore})

	code, out, _ := run(t, root, "scan", filepath.Join(root, "Foo.cs"), "--format", "json")
	require.Equal(t, 0, code)
	var unit map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &unit))

	code, out, _ = run(t, root, "scan", filepath.Join(root, "Foo.cs"), "--format", "dump")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Foo")

	code, out, _ = run(t, root, "scan", filepath.Join(root, "Foo.cs"), "--tokens")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "EOF")
}

func TestScanShortDiagnostics(t *testing.T) {
	root := fixture(t, map[string]string{"Broken.cs": "class Foo { }\n}\n"})

	code, _, errOut := run(t, root, "scan", filepath.Join(root, "Broken.cs"), "--short")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error RBP004: unexpected '}'")
	assert.NotContains(t, errOut, " | ", "short form has no snippet")
}

func TestWriteCacheStats(t *testing.T) {
	var buf bytes.Buffer
	writeCacheStats(&buf, nil)
	assert.Empty(t, buf.String())

	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	writeCacheStats(&buf, cache)
	assert.Equal(t, "cache: 0 hit(s), 0 miss(es)\n", buf.String())
}

func TestVersionJSON(t *testing.T) {
	code, out, _ := run(t, t.TempDir(), "version", "--format", "json", "--full")
	require.Equal(t, 0, code)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "oxmerge", payload.Tool)
	assert.Equal(t, "unknown", payload.GitCommit)
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{" ON ", uiModeOn, true},
		{"off", uiModeOff, true},
		{"sometimes", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, err == nil, tt.in)
	}
	assert.False(t, shouldUseTUI(uiModeOff, "pretty"))
	assert.True(t, shouldUseTUI(uiModeOn, "json"))
}
