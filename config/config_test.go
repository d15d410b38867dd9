package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10000, cfg.Analysis.MaxNestingDepth)
	assert.Equal(t, FormatText, cfg.Diagnostics.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Output.Layout)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, `
[analysis]
max_nesting_depth = 200

[diagnostics]
color = true
format = "lsp-json"

[output]
layout = "classes.ll"

[log]
level = "debug"
development = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Analysis.MaxNestingDepth)
	assert.True(t, cfg.Diagnostics.Color)
	assert.Equal(t, FormatLSPJSON, cfg.Diagnostics.Format)
	assert.Equal(t, "classes.ll", cfg.Output.Layout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "[diagnostics]\ncolor = true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Diagnostics.Color)
	assert.Equal(t, 10000, cfg.Analysis.MaxNestingDepth)
	assert.Equal(t, FormatText, cfg.Diagnostics.Format)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name          string
		content       string
		errorContains string
	}{
		{"malformed", "[analysis\n", "failed to parse config file"},
		{"unknown format", "[diagnostics]\nformat = \"xml\"\n", `unknown diagnostics format "xml"`},
		{"zero depth", "[analysis]\nmax_nesting_depth = 0\n", "max_nesting_depth must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.name+".toml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, FileName, "")
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0755))
	source := writeFile(t, nested, "main.cl", "")

	assert.Equal(t, want, FindConfigFile(source))
	assert.Equal(t, want, FindConfigFile(nested))
	assert.Empty(t, FindConfigFile(filepath.Join(root, "nope")))
}
