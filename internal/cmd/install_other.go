//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

func install(*slog.Logger) error { return errors.New("install requires systemd on linux") }

func uninstall(*slog.Logger) error { return errors.New("uninstall requires systemd on linux") }
