package container

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndtdash/internal/config"
	"ndtdash/internal/errors"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			PlannedFile:  filepath.Join(dir, "planejado.xlsx"),
			ExecutedFile: filepath.Join(dir, "realizado.xlsx"),
		},
		Server: config.ServerConfig{
			Port: "8080", APIPort: "8081", GinMode: "test",
			ReadTimeout: time.Second, WriteTimeout: time.Second,
		},
		Logging: config.LoggingConfig{Level: "ERROR", Format: "console"},
	}
}

func TestNew(t *testing.T) {
	c, err := New(testConfig(t.TempDir()))

	require.NoError(t, err)
	assert.Len(t, c.Kinds, 7)
	assert.NotNil(t, c.Service)
	assert.False(t, c.Service.Status().Loaded)
	assert.Nil(t, c.Hub)

	hub := c.EventHub()
	assert.Same(t, hub, c.EventHub())
	assert.NotNil(t, c.APIHandler())
}

func TestNew_InvalidKindsFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Data.KindsFile = filepath.Join(dir, "kinds.yaml")
	require.NoError(t, os.WriteFile(cfg.Data.KindsFile, []byte("kinds: []\n"), 0o600))

	_, err := New(cfg)

	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
