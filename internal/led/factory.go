package led

import (
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	KindSim     = "sim"
	KindMAX7219 = "max7219"
	KindStrip   = "strip"
	KindConsole = "console"
	KindSerial  = "serial"
)

func Kinds() []string {
	return []string{KindSim, KindMAX7219, KindStrip, KindConsole, KindSerial}
}

// Options carries the backend specific settings. Zero values select defaults,
// except Intensity where 0 is the chip's dimmest level.
type Options struct {
	SPIPort   string
	SPIHz     int64
	Intensity uint8

	StripPort  string
	Brightness float64

	SerialPort string
	Baud       int
}

// Open builds the backend named by kind.
func Open(kind string, o Options, log zerolog.Logger) (Driver, error) {
	switch kind {
	case KindSim:
		return NewSim(), nil

	case KindConsole:
		return NewConsole(), nil

	case KindMAX7219:
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("periph host init: %w", err)
		}
		d, err := OpenMAX7219(o.SPIPort, &MAX7219Opts{
			Freq:      physic.Frequency(o.SPIHz) * physic.Hertz,
			Intensity: o.Intensity,
		}, log)
		if err != nil {
			return nil, err
		}
		return d, nil

	case KindStrip:
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("periph host init: %w", err)
		}
		d, err := OpenStrip(o.StripPort, &StripOpts{Brightness: o.Brightness}, log)
		if err != nil {
			return nil, err
		}
		return d, nil

	case KindSerial:
		if o.SerialPort == "" {
			return nil, fmt.Errorf("serial driver needs a port")
		}
		baud := o.Baud
		if baud <= 0 {
			baud = 9600
		}
		d, err := OpenSerial(o.SerialPort, baud)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown driver %q", kind)
}
