//go:build linux

package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemdUnitContent(t *testing.T) {
	unit := systemdUnitContent("/usr/local/bin/pijoy")
	assert.Contains(t, unit, `ExecStart="/usr/local/bin/pijoy" run`)
	assert.Contains(t, unit, "WorkingDirectory=/etc/pijoy")
	assert.Contains(t, unit, "WantedBy=multi-user.target")
}

func testInstaller(t *testing.T, fail string) (*installer, *[]string) {
	var calls []string
	in := &installer{
		root:   t.TempDir(),
		logger: slog.Default(),
		systemctl: func(args ...string) error {
			call := strings.Join(args, " ")
			calls = append(calls, call)
			if call == fail {
				return errors.New("unit not loaded")
			}
			return nil
		},
	}
	return in, &calls
}

func TestInstallWritesFiles(t *testing.T) {
	in, calls := testInstaller(t, "")
	require.NoError(t, in.install("/usr/bin/pijoy"))

	unit, err := os.ReadFile(in.unitPath())
	require.NoError(t, err)
	assert.Contains(t, string(unit), `"/usr/bin/pijoy" run`)
	mods, err := os.ReadFile(in.modulesPath())
	require.NoError(t, err)
	assert.Equal(t, "uinput\n", string(mods))
	assert.DirExists(t, filepath.Join(in.root, "etc/pijoy"))
	assert.Equal(t, []string{"daemon-reload", "enable pijoy.service", "restart pijoy.service"}, *calls)
}

func TestUninstallContinuesPastErrors(t *testing.T) {
	in, calls := testInstaller(t, "stop pijoy.service")
	require.NoError(t, in.install("/usr/bin/pijoy"))
	*calls = nil

	err := in.uninstall()
	require.Error(t, err)
	assert.NoFileExists(t, in.unitPath())
	assert.NoFileExists(t, in.modulesPath())
	assert.Equal(t, []string{"stop pijoy.service", "disable pijoy.service", "daemon-reload"}, *calls)
}

func TestUninstallMissingFiles(t *testing.T) {
	in, _ := testInstaller(t, "")
	assert.NoError(t, in.uninstall())
}
