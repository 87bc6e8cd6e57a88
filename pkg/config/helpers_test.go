package config

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(p, []byte(content), 0600))
	return p
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	p := writeFile(t, "config.json", `{"username": "bar", "password": "baz", "cache_dir": "/tmp/bzcache"}`)

	config, err := LoadConfig(p, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIServer, config.APIServer)
	assert.Equal(t, DefaultServer, config.Server)
	assert.Equal(t, "bar", config.Username)
	assert.Equal(t, "baz", config.Password)
	assert.Equal(t, "/tmp/bzcache", config.CacheDir)
	assert.True(t, config.HasCredentials())
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeFile(t, "config.yaml", "api_server: http://foo/latest\napi_key: secret\n")

	config, err := LoadConfig(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://foo/latest", config.APIServer)
	assert.Equal(t, DefaultServer, config.Server)
	assert.Equal(t, "secret", config.APIKey)
	assert.False(t, config.HasCredentials())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), nil)
	assert.Error(t, err)
}

func TestLoadConfigNoDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *config)
}

func TestLoadConfigPromptsForPassword(t *testing.T) {
	p := writeFile(t, "config.json", `{"username": "bar"}`)

	var asked string
	config, err := LoadConfig(p, func(prompt string) (string, error) {
		asked = prompt
		return "sekrit", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Enter password for bar: ", asked)
	assert.Equal(t, "sekrit", config.Password)
}

func TestLoadConfigEmptyPasswordAborts(t *testing.T) {
	p := writeFile(t, "config.json", `{"username": "bar"}`)

	_, err := LoadConfig(p, func(string) (string, error) { return "", nil })
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a := Defaults()
	a.APIServer = "http://changed"
	assert.Equal(t, DefaultAPIServer, Defaults().APIServer)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".bzcache"), ExpandHome("~/.bzcache"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "", ExpandHome(""))
}
