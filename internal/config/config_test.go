package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videosnap/pkg/models"
)

func TestNewManagerCreatesDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	// Default config file should have been written
	assert.FileExists(t, configPath)

	cfg := manager.Get()
	assert.Equal(t, models.DefaultConfig().WebServerPort, cfg.WebServerPort)
	assert.Equal(t, "static/video.mp4", cfg.DefaultVideoPath)
	assert.Equal(t, "static/cache", cfg.CachePath)
}

func TestNewManagerLoadsExisting(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	data := `{"webServerPort": 8123, "cachePath": "/tmp/videos"}`
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0644))

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, 8123, cfg.WebServerPort)
	assert.Equal(t, "/tmp/videos", cfg.CachePath)
	// Missing fields are filled from defaults
	assert.Equal(t, "ffprobe", cfg.FfprobePath)
	assert.Equal(t, 1080, cfg.YtdlMaxRes)
}

func TestNewManagerInvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte("not json"), 0644))

	_, err := NewManager(configPath)
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	err = manager.Update(func(cfg *models.Config) {
		cfg.WebServerPort = 9999
	})
	require.NoError(t, err)

	// Reload from disk to confirm persistence
	reloaded, err := NewManager(configPath)
	require.NoError(t, err)
	assert.Equal(t, 9999, reloaded.Get().WebServerPort)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	err = manager.Update(func(cfg *models.Config) {
		cfg.WebServerPort = -1
	})
	assert.ErrorIs(t, err, ErrInvalidPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Config)
		wantErr error
	}{
		{"defaults are valid", func(c *models.Config) {}, nil},
		{"port too low", func(c *models.Config) { c.WebServerPort = 0 }, ErrInvalidPort},
		{"port too high", func(c *models.Config) { c.WebServerPort = 70000 }, ErrInvalidPort},
		{"resolution too low", func(c *models.Config) { c.YtdlMaxRes = 100 }, ErrInvalidResolution},
		{"resolution too high", func(c *models.Config) { c.YtdlMaxRes = 9999 }, ErrInvalidResolution},
		{"empty cache path", func(c *models.Config) { c.CachePath = "" }, ErrMissingCachePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGetReturnsCopy(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	cfg := manager.Get()
	cfg.WebServerPort = 1

	assert.NotEqual(t, 1, manager.Get().WebServerPort)
}
