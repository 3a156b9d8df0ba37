package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chazu/kerf/pkg/slicer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, slicer.ModeMesh, cfg.Mode())
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[slicing]
step = 0.1
mode = "box"

[weld]
bucket_size = 2.0

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Slicing.Step)
	assert.Equal(t, slicer.ModeBox, cfg.Mode())
	assert.Equal(t, 2.0, cfg.WeldOptions().BucketSize)
	assert.Equal(t, Default().Weld.Threshold, cfg.WeldOptions().Threshold, "unset keys keep defaults")
	assert.Equal(t, 64, cfg.Tessellation.Cells)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[slicing\nstep = 1", "config:"},
		{"unknown key", "[slicing]\nspeed = 1", "speed"},
		{"negative step", "[slicing]\nstep = -1", "slicing.step"},
		{"bad mode", "[slicing]\nmode = \"voxel\"", "slicing.mode"},
		{"negative threshold", "[weld]\nthreshold = -1.0", "weld.threshold"},
		{"zero cells", "[tessellation]\ncells = 0", "tessellation.cells"},
		{"zero timeout", "[engine]\ntimeout_seconds = 0.0", "engine.timeout_seconds"},
		{"bad level", "[log]\nlevel = \"loud\"", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "kerf.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tessellation]\ncells = 32\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Tessellation.Cells)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[tessellation]\ncells = -1\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad.toml"))
}
