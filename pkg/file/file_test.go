package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benmeehan/locate/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_IsFileExists(t *testing.T) {
	fs := file.NewFileService()
	path := filepath.Join(t.TempDir(), "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	exists, err := fs.IsFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fs.IsFileExists(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileService_ReadFileRaw(t *testing.T) {
	fs := file.NewFileService()
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----"), 0o600))

	data, err := fs.ReadFileRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN CERTIFICATE-----", string(data))

	_, err = fs.ReadFileRaw(filepath.Join(t.TempDir(), "missing.pem"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileService_JsonRoundTrip(t *testing.T) {
	fs := file.NewFileService()
	path := filepath.Join(t.TempDir(), "nested", "device.json")

	type device struct {
		ID string `json:"device_id"`
	}
	require.NoError(t, fs.WriteJsonFile(path, device{ID: "abc"}))

	_, err := os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)

	var got device
	require.NoError(t, fs.ReadJsonFile(path, &got))
	assert.Equal(t, "abc", got.ID)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	fs := file.NewFileService()
	dir := t.TempDir()

	type config struct {
		Engine string `yaml:"engine"`
		QOS    int    `yaml:"qos"`
	}

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: gps\nqos: 2\n"), 0o600))
	var cfg config
	require.NoError(t, fs.ReadYamlFile(path, &cfg))
	assert.Equal(t, config{Engine: "gps", QOS: 2}, cfg)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	kept := config{Engine: "wifi"}
	require.NoError(t, fs.ReadYamlFile(empty, &kept))
	assert.Equal(t, "wifi", kept.Engine)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("engine: [unclosed"), 0o600))
	assert.Error(t, fs.ReadYamlFile(bad, &cfg))
}
