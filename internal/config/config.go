package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/statusmonitor/internal/led"
	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

type SPI struct {
	Port      string `yaml:"port"`      // periph port name, "" for the first one
	SpeedHz   int64  `yaml:"speed_hz"`  // e.g. 1000000
	Intensity uint8  `yaml:"intensity"` // 0..15
}

type Strip struct {
	Port       string  `yaml:"port"`
	Brightness float64 `yaml:"brightness"` // (0,1]
}

type Serial struct {
	Port string `yaml:"port"` // e.g. /dev/ttyUSB0
	Baud int    `yaml:"baud"`
}

type Log struct {
	Level string `yaml:"level"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Driver     string       `yaml:"driver"` // sim | max7219 | strip | console | serial
	Indicators int          `yaml:"indicators"`
	Digits     int          `yaml:"digits"`
	Pins       monitor.Pins `yaml:"pins"`

	SPI    SPI    `yaml:"spi,omitempty"`
	Strip  Strip  `yaml:"strip,omitempty"`
	Serial Serial `yaml:"serial,omitempty"`

	Log  Log  `yaml:"log"`
	HTTP HTTP `yaml:"http"`
}

func Default() *Config {
	return &Config{
		Driver:     led.KindSim,
		Indicators: monitor.MaxIndicators,
		Digits:     monitor.DefaultDigits,
		Pins:       monitor.Pins{Data: 12, Clock: 11, Load: 10},
		SPI: SPI{
			SpeedHz:   1000000,
			Intensity: led.DefaultMAX7219Intensity,
		},
		Strip:  Strip{Brightness: 0.5},
		Serial: Serial{Port: "/dev/ttyUSB0", Baud: 9600},
		Log:    Log{Level: "info"},
		HTTP:   HTTP{Addr: ":8080"},
	}
}

// Load reads path over the defaults; keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate rejects values no backend can work with. The indicator count is not
// checked here; the monitor clamps it.
func (c *Config) Validate() error {
	known := false
	for _, k := range led.Kinds() {
		if c.Driver == k {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown driver %q (want one of %v)", c.Driver, led.Kinds())
	}
	if c.Digits < 1 || c.Digits > model.Rows {
		return fmt.Errorf("digits %d out of range 1..%d", c.Digits, model.Rows)
	}
	if c.SPI.Intensity > 0x0f {
		return fmt.Errorf("spi intensity %d out of range 0..15", c.SPI.Intensity)
	}
	if c.Strip.Brightness <= 0 || c.Strip.Brightness > 1 {
		return fmt.Errorf("strip brightness %v out of range (0,1]", c.Strip.Brightness)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// DriverOptions maps the backend sections onto led.Options.
func (c *Config) DriverOptions() led.Options {
	return led.Options{
		SPIPort:    c.SPI.Port,
		SPIHz:      c.SPI.SpeedHz,
		Intensity:  c.SPI.Intensity,
		StripPort:  c.Strip.Port,
		Brightness: c.Strip.Brightness,
		SerialPort: c.Serial.Port,
		Baud:       c.Serial.Baud,
	}
}
