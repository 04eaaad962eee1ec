//go:build linux

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Alia5/pijoy/internal/configpaths"
)

const serviceName = "pijoy.service"

// installer owns the files the service needs. root is "/" outside tests.
type installer struct {
	root      string
	systemctl func(args ...string) error
	logger    *slog.Logger
}

func newInstaller(logger *slog.Logger) *installer {
	return &installer{root: "/", systemctl: runSystemctl, logger: logger}
}

func (in *installer) unitPath() string {
	return filepath.Join(in.root, "etc/systemd/system", serviceName)
}

// modulesPath makes sure /dev/uinput exists at boot.
func (in *installer) modulesPath() string {
	return filepath.Join(in.root, "etc/modules-load.d/pijoy.conf")
}

func (in *installer) install(exePath string) error {
	if err := os.MkdirAll(filepath.Join(in.root, configpaths.SystemConfigDir), 0o755); err != nil {
		return err
	}
	files := []struct {
		path string
		body string
	}{
		{in.unitPath(), systemdUnitContent(exePath)},
		{in.modulesPath(), "uinput\n"},
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f.path, []byte(f.body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	for _, args := range [][]string{
		{"daemon-reload"},
		{"enable", serviceName},
		{"restart", serviceName},
	} {
		if err := in.systemctl(args...); err != nil {
			return err
		}
	}
	in.logger.Info("pijoy service installed", "unit", in.unitPath(), "exe", exePath)
	return nil
}

// uninstall keeps going past failures so a half-installed service is still removed.
func (in *installer) uninstall() error {
	var errs []error
	for _, args := range [][]string{{"stop", serviceName}, {"disable", serviceName}} {
		if err := in.systemctl(args...); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range []string{in.unitPath(), in.modulesPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := in.systemctl("daemon-reload"); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	in.logger.Info("pijoy service removed", "unit", in.unitPath())
	return nil
}

func install(logger *slog.Logger) error {
	exePath, err := currentExecutable()
	if err != nil {
		return err
	}
	return newInstaller(logger).install(exePath)
}

func uninstall(logger *slog.Logger) error {
	return newInstaller(logger).uninstall()
}

// systemdUnitContent runs "pijoy run" once udev has created the gpio and uinput
// nodes. Pad slots come from the config files, so the unit carries no flags.
func systemdUnitContent(exePath string) string {
	var b strings.Builder
	b.WriteString("[Unit]\nDescription=pijoy DB9 gamepad driver\n")
	b.WriteString("After=systemd-udev-settle.service systemd-modules-load.service\n")
	b.WriteString("Wants=systemd-udev-settle.service\n\n")
	b.WriteString("[Service]\nType=simple\n")
	fmt.Fprintf(&b, "ExecStart=%q run\n", exePath)
	fmt.Fprintf(&b, "WorkingDirectory=%s\n", configpaths.SystemConfigDir)
	b.WriteString("Restart=on-failure\nRestartSec=2\n\n")
	b.WriteString("[Install]\nWantedBy=multi-user.target\n")
	return b.String()
}

func runSystemctl(args ...string) error {
	out, err := exec.Command("systemctl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
