package configpaths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pijoy/internal/configpaths"
)

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/pijoy", dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/pi")
	dir, err = configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/pi/.config/pijoy", dir)
}

func TestConfigCandidatePaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	for _, user := range []string{"/srv/pads.yml", "/srv/pads.toml", "/srv/pads.json", "/srv/pads"} {
		j, y, tm := configpaths.ConfigCandidatePaths(user)
		switch filepath.Ext(user) {
		case ".yml":
			assert.Equal(t, user, y[0])
		case ".toml":
			assert.Equal(t, user, tm[0])
		default:
			assert.Equal(t, user, j[0])
		}
	}

	j, y, tm := configpaths.ConfigCandidatePaths("")
	assert.Contains(t, j, "/tmp/xdg/pijoy/config.json")
	assert.Contains(t, y, "/etc/pijoy/pijoy.yaml")
	assert.Contains(t, tm, "/etc/pijoy/config.toml")
	assert.Equal(t, "/etc/pijoy/config.toml", tm[len(tm)-1])
}

func TestExt(t *testing.T) {
	assert.Equal(t, "yaml", configpaths.Ext("yml"))
	assert.Equal(t, "toml", configpaths.Ext("toml"))
	assert.Equal(t, "json", configpaths.Ext(""))
}
