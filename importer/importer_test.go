package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func modules(sources []Source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Module)
	}
	return names
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "main.cl", "class Main {};\n")

	sources, err := New().Load(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "main", sources[0].Module)
	assert.Equal(t, "class Main {};\n", sources[0].Content)
	assert.True(t, filepath.IsAbs(sources[0].Path))
}

func TestLoadFollowsImportsInDependencyOrder(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "list.cl", "module list;\nimport util;\nclass List {};\n")
	writeModule(t, dir, "util.cl", "class Util {};\n")
	path := writeModule(t, dir, "main.cl", "module app;\nimport list;\nimport util;\nclass Main {};\n")

	sources, err := New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"util", "list", "app"}, modules(sources))
	assert.Equal(t, []string{"list", "util"}, sources[2].Imports)
}

func TestDirectivesKeepLineNumbers(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.cl", "class Util {};\n")
	path := writeModule(t, dir, "main.cl", "module app;\nimport util;\nclass Main {};\n")

	sources, err := New().Load(path)
	require.NoError(t, err)

	root := sources[len(sources)-1]
	lines := strings.Split(root.Content, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "class Main {};", lines[2])
}

func TestCircularImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.cl", "import b;\nclass A {};\n")
	writeModule(t, dir, "b.cl", "import a;\nclass B {};\n")

	_, err := New().Load(filepath.Join(dir, "a.cl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular import of module a")
}

func TestMissingImportsAreCombined(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "main.cl", "import gone;\nimport lost;\nclass Main {};\n")

	sources, err := New().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imports gone")
	assert.Contains(t, err.Error(), "imports lost")

	// the readable root file is still returned
	assert.Equal(t, []string{"main"}, modules(sources))
}

func TestMissingRootFile(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "nope.cl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
