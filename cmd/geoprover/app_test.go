package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/geoprover/config"
	"github.com/njchilds90/geoprover/report"
)

const midline = `name: midline
constructions:
  - {label: A, kind: free-point}
  - {label: B, kind: free-point}
  - {label: M, kind: midpoint, refs: [A, B]}
statement: {kind: collinear, refs: [A, B, M]}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func testApp(out io.Writer) *app {
	return &app{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    out,
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "one.yaml"), midline)
	writeFile(t, filepath.Join(dir, "a", "b", "two.yml"), midline)
	writeFile(t, filepath.Join(dir, "a", "notes.txt"), "")

	files, err := expand([]string{filepath.Join(dir, "**", "*.y*ml"), filepath.Join(dir, "a", "one.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "b", "two.yml"),
		filepath.Join(dir, "a", "one.yaml"),
	}, files)

	_, err = expand([]string{filepath.Join(dir, "*.json")})
	assert.ErrorContains(t, err, "no theorem files match")
}

func TestCompileCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midline.yaml")
	writeFile(t, path, midline)

	out, err := run(t, "compile", "--format", "json", path)
	require.NoError(t, err)

	var rec report.SystemRecord
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, "system", rec.Type)
	assert.Equal(t, "midline", rec.Name)
	assert.Equal(t, 4, rec.Free)
	assert.Equal(t, 2, rec.Dependent)
	assert.Len(t, rec.Hypotheses, 2)
	assert.Equal(t, "collinear(A, B, M)", rec.Statement)
}

func TestCompileCommand_Steps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midline.yaml")
	writeFile(t, path, midline)

	out, err := run(t, "compile", "--steps", path)
	require.NoError(t, err)
	assert.Contains(t, out, "free")
	assert.Contains(t, out, "theorem midline (run ")
	assert.Contains(t, out, "goal collinear(A, B, M): ")
}

func TestCompileCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "midline.yaml")
	writeFile(t, path, midline)
	cfgPath := filepath.Join(dir, "run.yaml")
	writeFile(t, cfgPath, "search:\n  fix_base_points: true\noutput:\n  format: json\n")

	out, err := run(t, "compile", "--config", cfgPath, path)
	require.NoError(t, err)

	var rec report.SystemRecord
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec))
	assert.Equal(t, 1, rec.Free, "fixed base points leave one free parameter")
}

func TestCompileCommand_ReportsFailuresAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.yaml"), midline)
	writeFile(t, filepath.Join(dir, "bad.yaml"), "constructions:\n  - {label: M, kind: midpoint, refs: [A, B]}\n")

	out, err := run(t, "compile", filepath.Join(dir, "*.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 theorems failed")
	assert.Contains(t, err.Error(), "bad.yaml")
	assert.Contains(t, out, "theorem midline")
}

func TestCompileCommand_BadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midline.yaml")
	writeFile(t, path, midline)

	_, err := run(t, "compile", "--format", "xml", path)
	assert.ErrorContains(t, err, "output.format")

	_, err = run(t, "compile")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "geoprover version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestWatcher_HandleAndFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "midline.yaml")
	writeFile(t, path, midline)
	gone := filepath.Join(dir, "gone.yaml")

	var out bytes.Buffer
	w, err := newWatcher(testApp(&out), []string{filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)

	w.handle(fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: filepath.Join(dir, "sub", "other.yaml"), Op: fsnotify.Write})
	assert.Empty(t, w.pending)

	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	w.handle(fsnotify.Event{Name: gone, Op: fsnotify.Remove})
	require.Len(t, w.pending, 2)
	assert.True(t, w.pending[path].Has(fsnotify.Write))

	w.flush()
	assert.Empty(t, w.pending)
	assert.Equal(t, 1, strings.Count(out.String(), "theorem midline"))

	out.Reset()
	w.flush()
	assert.Empty(t, out.String())
}
