package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &config{}, cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "callgraph.yaml")
	yamlBody := `
root: /src
projectFiles: ["__init__.py", "pyproject.toml"]
drawDefines: false
colorByFile: true
format: json
output: out.json
parallelism: 4
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/src", cfg.Root)
	assert.Equal(t, []string{"__init__.py", "pyproject.toml"}, cfg.ProjectFiles)
	require.NotNil(t, cfg.DrawDefines)
	assert.False(t, *cfg.DrawDefines)
	assert.Nil(t, cfg.DrawUses)
	assert.True(t, cfg.ColorByFile)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "out.json", cfg.Output)
	assert.Equal(t, 4, cfg.Parallelism)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/path/callgraph.yaml")
	assert.Error(t, err)
}

func TestBoolOr(t *testing.T) {
	yes, no := true, false
	assert.True(t, boolOr(&yes, false))
	assert.False(t, boolOr(&no, true))
	assert.True(t, boolOr(nil, true))
	assert.False(t, boolOr(nil, false))
}
