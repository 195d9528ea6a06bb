package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/coreman2200/statusmonitor/monitor"
)

// Registers
const (
	regNoOp        byte = 0x00
	regDigit0      byte = 0x01
	regDecodeMode  byte = 0x09
	regIntensity   byte = 0x0a
	regScanLimit   byte = 0x0b
	regShutdown    byte = 0x0c
	regDisplayTest byte = 0x0f
)

const (
	DefaultMAX7219Freq      = 1 * physic.MegaHertz
	DefaultMAX7219Intensity = 0x08
)

type MAX7219Opts struct {
	Freq physic.Frequency
	// Intensity is the PWM duty 0x00..0x0f.
	Intensity uint8
}

// MAX7219 talks to the chip through a SPI port: DIN on MOSI, CLK on SCLK and LOAD
// on the chip select line. The controller clocks the bits; this type only
// addresses registers.
type MAX7219 struct {
	mu     sync.Mutex
	port   spi.PortCloser
	conn   spi.Conn
	opts   MAX7219Opts
	digits int
	log    zerolog.Logger
}

func NewMAX7219(port spi.PortCloser, opts *MAX7219Opts, log zerolog.Logger) *MAX7219 {
	o := MAX7219Opts{Freq: DefaultMAX7219Freq, Intensity: DefaultMAX7219Intensity}
	if opts != nil {
		if opts.Freq > 0 {
			o.Freq = opts.Freq
		}
		o.Intensity = opts.Intensity & 0x0f
	}
	return &MAX7219{
		port: port,
		opts: o,
		log:  log.With().Str("component", "max7219").Logger(),
	}
}

// OpenMAX7219 opens a SPI port by periph name ("" selects the first one).
func OpenMAX7219(name string, opts *MAX7219Opts, log zerolog.Logger) (*MAX7219, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	return NewMAX7219(p, opts, log), nil
}

func (d *MAX7219) Init(pins monitor.Pins, digits int) error {
	if err := checkDigits(digits); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		c, err := d.port.Connect(d.opts.Freq, spi.Mode0, 8)
		if err != nil {
			return fmt.Errorf("spi connect: %w", err)
		}
		d.conn = c
	}
	d.digits = digits
	d.log.Info().
		Int("din", pins.Data).
		Int("clk", pins.Clock).
		Int("load", pins.Load).
		Int("digits", digits).
		Str("port", d.port.String()).
		Msg("configuring driver")

	setup := [][2]byte{
		{regDisplayTest, 0x00},
		{regScanLimit, byte(digits - 1)},
		{regDecodeMode, 0x00},
		{regIntensity, d.opts.Intensity},
	}
	for _, w := range setup {
		if err := d.write(w[0], w[1]); err != nil {
			return err
		}
	}
	for r := 0; r < digits; r++ {
		if err := d.write(regDigit0+byte(r), 0x00); err != nil {
			return err
		}
	}
	return nil
}

func (d *MAX7219) SetEnabled(enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var v byte
	if enabled {
		v = 0x01
	}
	return d.write(regShutdown, v)
}

func (d *MAX7219) SetRow(row int, pattern byte) error {
	if err := checkRow(row); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(regDigit0+byte(row), pattern)
}

func (d *MAX7219) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = nil
	return d.port.Close()
}

func (d *MAX7219) write(reg, val byte) error {
	if d.conn == nil {
		return fmt.Errorf("max7219 not initialized")
	}
	if err := d.conn.Tx([]byte{reg, val}, nil); err != nil {
		return fmt.Errorf("spi write reg 0x%02x: %w", reg, err)
	}
	return nil
}
