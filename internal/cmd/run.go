package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/pijoy/driver"
	"github.com/Alia5/pijoy/gpio"
	"github.com/Alia5/pijoy/input"
	"github.com/Alia5/pijoy/monitor"
)

type GPIOConfig struct {
	Chip string `help:"GPIO character device" default:"/dev/gpiochip0" env:"PIJOY_GPIO_CHIP"`
}

type MonitorConfig struct {
	Addr string `help:"Live monitor listen address, empty disables it" env:"PIJOY_MONITOR_ADDR"`
}

// Run polls the configured pads until interrupted.
type Run struct {
	Dev1     []int         `help:"First pad as <port>,<mode>" env:"PIJOY_DEV1" sep:","`
	Dev2     []int         `help:"Second pad as <port>,<mode>" env:"PIJOY_DEV2" sep:","`
	Sink     string        `help:"Where pad reports go" enum:"uinput,log,none" default:"uinput" env:"PIJOY_SINK"`
	OnDemand bool          `help:"Poll a pad only while a monitor client watches it" env:"PIJOY_ON_DEMAND"`
	GPIO     GPIOConfig    `embed:"" prefix:"gpio."`
	Monitor  MonitorConfig `embed:"" prefix:"monitor."`
}

func (r *Run) driverConfig() (driver.Config, error) {
	var cfg driver.Config
	for i, args := range [driver.MaxDevices][]int{r.Dev1, r.Dev2} {
		s, err := driver.SlotFromArgs(args)
		if err != nil {
			return cfg, fmt.Errorf("dev%d: %w", i+1, err)
		}
		cfg.Slots[i] = s
	}
	return cfg, nil
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.OnDemand && r.Monitor.Addr == "" {
		return fmt.Errorf("--on-demand needs --monitor.addr")
	}
	cfg, err := r.driverConfig()
	if err != nil {
		return err
	}
	reg, err := input.NewRegistrar(r.Sink, logger)
	if err != nil {
		return err
	}
	chip, err := gpio.OpenChip(r.GPIO.Chip)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.GPIO.Chip, err)
	}
	defer chip.Close()

	return serve(ctx, cfg, chip, reg, r, logger)
}

// serve runs the driver against an already opened chip until ctx is done.
func serve(ctx context.Context, cfg driver.Config, chip gpio.Chip, reg input.Registrar, r *Run, logger *slog.Logger) error {
	var tap *monitor.Tap
	if r.Monitor.Addr != "" {
		tap = monitor.NewTap(reg)
		reg = tap
	}
	drv, err := driver.New(cfg, chip, reg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := drv.Close(); err != nil {
			logger.Error("driver teardown", "error", err)
		}
	}()

	if tap != nil {
		srv := monitor.NewServer(drv, tap, r.Monitor.Addr, logger)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	if !r.OnDemand {
		for _, dev := range drv.Devices() {
			if err := dev.Open(ctx); err != nil {
				return fmt.Errorf("open pad %d: %w", dev.Slot(), err)
			}
			defer dev.Close()
		}
	}

	logger.Info("pijoy running", "pads", len(drv.Devices()), "sink", r.Sink, "on_demand", r.OnDemand)
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
