package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clove.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ' ', cfg.IndentRune())
	assert.Equal(t, 4, cfg.Indent.Width)
	assert.Empty(t, cfg.Cache.Path)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[Indent]
Char = "\t"
Width = 1

[Output]
Dir = "out"
GoPackage = "translated"

[Cache]
Path = "/tmp/clove.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.IndentRune())
	assert.Equal(t, 1, cfg.Indent.Width)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "translated", cfg.Output.GoPackage)
	assert.Equal(t, "/tmp/clove.db", cfg.Cache.Path)
	assert.Equal(t, 256, cfg.Cache.Size, "unset fields keep their defaults")
	assert.Equal(t, "127.0.0.1:7450", cfg.Service.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", "[Indent]\nSpaces = 2\n"},
		{"unknown section", "[Color]\nOn = true\n"},
		{"wide indent char", "[Indent]\nChar = \"ab\"\n"},
		{"negative width", "[Indent]\nWidth = -1\n"},
		{"syntax", "[Indent\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(Defaults())
	require.NoError(t, err)

	path := writeConfig(t, string(out))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}
