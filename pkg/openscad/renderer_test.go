package openscad

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "main.scad"), "use <lib/shapes.scad>\n// include <ignored.scad>\ninclude <./params.scad>\ncube(1);\n")
	write(t, filepath.Join(dir, "lib", "shapes.scad"), "include <../params.scad>\nmodule s() {}\n")
	write(t, filepath.Join(dir, "params.scad"), "size = 3;\n")

	deps, err := NewRenderer(dir).ResolveDependencies("main.scad")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "lib", "shapes.scad"),
		filepath.Join(dir, "params.scad"),
	}, deps)
}

func TestResolveDependenciesCycle(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.scad"), "use <b.scad>\n")
	write(t, filepath.Join(dir, "b.scad"), "use <a.scad>\n")

	deps, err := NewRenderer(dir).ResolveDependencies(filepath.Join(dir, "a.scad"))
	require.NoError(t, err)
	assert.Len(t, deps, 2)
}

func TestResolveDependenciesMissingFile(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.scad"), "use <missing.scad>\n")

	_, err := NewRenderer(dir).ResolveDependencies("a.scad")
	assert.Error(t, err)
}

func TestRenderWithoutBinary(t *testing.T) {
	r := NewRenderer(t.TempDir())
	r.Binary = "openscad-does-not-exist"

	_, err := r.Render(context.Background(), "a.scad")
	assert.ErrorIs(t, err, ErrNotInstalled)
}
