package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/statusmonitor/internal/config"
	"github.com/coreman2200/statusmonitor/internal/led"
	"github.com/coreman2200/statusmonitor/internal/metrics"
	"github.com/coreman2200/statusmonitor/monitor"
)

var rootCmd = &cobra.Command{
	Use:           "statusmonitor",
	Short:         "Drive a bank of tri-colour status indicators through a MAX7219",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "config.yaml", "path to config.yaml")
	f.String("driver", led.KindSim, "driver: sim | max7219 | strip | console | serial")
	f.Int("indicators", monitor.MaxIndicators, "number of connected indicators (clamped to 1..16)")
	f.Int("digits", monitor.DefaultDigits, "rows the driver chip scans (1..8)")
	f.Int("data", 12, "DIN pin")
	f.Int("clock", 11, "CLK pin")
	f.Int("load", 10, "LOAD pin")
	f.String("log-level", "info", "log level")

	rootCmd.AddCommand(serveCmd, setCmd, configCmd)
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("statusmonitor")
	}
}

// loadConfig reads the config file and applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !f.Changed("config"):
		log.Warn().Str("path", path).Msg("config file not found; using defaults and flags")
		cfg = config.Default()
	case err != nil:
		log.Warn().Err(err).Str("path", path).Msg("config load failed; proceeding with defaults and flags")
		cfg = config.Default()
	}

	if f.Changed("driver") {
		cfg.Driver, _ = f.GetString("driver")
	}
	if f.Changed("indicators") {
		cfg.Indicators, _ = f.GetInt("indicators")
	}
	if f.Changed("digits") {
		cfg.Digits, _ = f.GetInt("digits")
	}
	if f.Changed("data") {
		cfg.Pins.Data, _ = f.GetInt("data")
	}
	if f.Changed("clock") {
		cfg.Pins.Clock, _ = f.GetInt("clock")
	}
	if f.Changed("load") {
		cfg.Pins.Load, _ = f.GetInt("load")
	}
	if f.Changed("log-level") {
		cfg.Log.Level, _ = f.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lvl, _ := zerolog.ParseLevel(cfg.Log.Level)
	zerolog.SetGlobalLevel(lvl)
	return cfg, nil
}

// openMonitor opens the configured backend, falling back to the simulator when the
// hardware is unavailable, and brings the indicator bank up.
func openMonitor(cfg *config.Config) (*monitor.Monitor, led.Driver, string, error) {
	selected := cfg.Driver
	drv, err := led.Open(selected, cfg.DriverOptions(), log.Logger)
	if err != nil {
		log.Warn().Err(err).Str("driver", selected).Msg("driver init failed; falling back to SIM")
		selected = led.KindSim
		drv = led.NewSim()
	}

	inst := metrics.Instrument(drv)
	mon := monitor.New(inst,
		monitor.WithDigits(cfg.Digits),
		monitor.WithLogger(log.Logger.With().Str("component", "monitor").Logger()),
	)
	if err := mon.Begin(cfg.Pins, cfg.Indicators); err != nil {
		_ = inst.Close()
		return nil, nil, selected, err
	}
	log.Info().
		Str("driver", selected).
		Int("indicators", mon.Count()).
		Int("digits", mon.Digits()).
		Msg("indicators ready")
	return mon, inst, selected, nil
}
