// Package cmd holds the pijoy command line.
package cmd

import (
	"github.com/Alia5/pijoy/internal/log"
)

// CLI is the root command.
type CLI struct {
	ConfigFile string      `name:"config" help:"Config file (json, yaml or toml)" type:"path" env:"PIJOY_CONFIG"`
	Log        log.Options `embed:"" prefix:"log."`

	Run       Run           `cmd:"" help:"Poll the configured pads and report them as input devices"`
	Modes     Modes         `cmd:"" help:"List supported controller types"`
	Status    Status        `cmd:"" help:"Show pad state of a running instance through its monitor"`
	Watch     Watch         `cmd:"" help:"Stream one pad from a running instance through its monitor"`
	Config    ConfigCommand `cmd:"" help:"Manage configuration files"`
	Install   Install       `cmd:"" help:"Install pijoy as a systemd service"`
	Uninstall Uninstall     `cmd:"" help:"Remove the pijoy systemd service"`
}
