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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	assert.Equal(t, "images", conf.ImagesDir)
	assert.Equal(t, "attendance.db", conf.Ledger)
	assert.Equal(t, 0.6, conf.Tolerance)
	assert.Equal(t, 10, conf.Timeout)
	assert.Equal(t, DriverOpenCV, conf.Camera.Driver)
	assert.Equal(t, 0, conf.Camera.Index)
	assert.Equal(t, 640, conf.Camera.Width)
	assert.Equal(t, 480, conf.Camera.Height)
	assert.Equal(t, "info", conf.Log.Level)
	require.NoError(t, conf.Validate())

	_, pinned := conf.PinnedCore()
	assert.False(t, pinned)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
images_dir: /srv/faces
ledger: /var/lib/rollcall/attendance.db
tolerance: 0.45
cpu_core: 2
camera:
  driver: V4L2
  device: /dev/video2
log:
  level: debug
  format: json
`)
	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/faces", conf.ImagesDir)
	assert.Equal(t, "/var/lib/rollcall/attendance.db", conf.Ledger)
	assert.Equal(t, 0.45, conf.Tolerance)
	assert.Equal(t, DriverV4L2, conf.Camera.Driver)
	assert.Equal(t, "/dev/video2", conf.Camera.Device)
	assert.Equal(t, "json", conf.Log.Format)

	core, pinned := conf.PinnedCore()
	assert.True(t, pinned)
	assert.Equal(t, 2, core)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "images_dir: /srv/faces\ntolerance: 0.5\n")
	t.Setenv("ROLLCALL_IMAGES_DIR", "/tmp/faces")
	t.Setenv("ROLLCALL_TOLERANCE", "0.3")
	t.Setenv("ROLLCALL_CAMERA_INDEX", "1")
	t.Setenv("ROLLCALL_TIMEOUT", "not-a-number")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/faces", conf.ImagesDir)
	assert.Equal(t, 0.3, conf.Tolerance)
	assert.Equal(t, 1, conf.Camera.Index)
	assert.Equal(t, 10, conf.Timeout)
}

func TestLoad_BrokenFileReportsError(t *testing.T) {
	path := writeConfig(t, "images_dir: /srv/faces\ntolerance: [oops\n")

	conf, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	require.NotNil(t, conf)
	assert.Equal(t, "images", conf.ImagesDir)
	assert.Equal(t, 0.6, conf.Tolerance)
}

func TestLoad_MissingDefaultPathIsQuiet(t *testing.T) {
	if _, err := os.Stat(DefaultPath); err == nil {
		t.Skip(DefaultPath + " exists on this host")
	}

	conf, err := Load("")

	assert.NoError(t, err)
	assert.Equal(t, "images", conf.ImagesDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"negative tolerance", func(c *Config) { c.Tolerance = -1 }, false},
		{"negative timeout", func(c *Config) { c.Timeout = -5 }, false},
		{"unknown driver", func(c *Config) { c.Camera.Driver = "gstreamer" }, false},
		{"negative index", func(c *Config) { c.Camera.Index = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.applyDefaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
