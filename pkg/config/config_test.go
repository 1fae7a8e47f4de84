package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("FOLIO_TEST_NAME", "from-env")
	path := writeConfig(t, "name: ${FOLIO_TEST_NAME}\nport: 8080\n")

	var cfg sample
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, sample{Name: "from-env", Port: 8080}, cfg)
}

func TestLoad_ValidationFails(t *testing.T) {
	path := writeConfig(t, "name: x\nport: 0\n")
	var cfg sample
	assert.Error(t, Load(path, &cfg))
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg sample
	assert.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg))
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	cfg := sample{Name: "default", Port: 3000}
	require.NoError(t, LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg))
	assert.Equal(t, sample{Name: "default", Port: 3000}, cfg)
}

func TestLoadOptional_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")
	cfg := sample{Name: "default", Port: 3000}
	require.NoError(t, LoadOptional(path, &cfg))
	assert.Equal(t, sample{Name: "default", Port: 9000}, cfg)
}
