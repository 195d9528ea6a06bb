package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

// RefreshRate is the WS281x bit rate in kHz; nrzled needs 3 SPI bits per bit.
const RefreshRate physic.Frequency = 800

type StripOpts struct {
	Freq       physic.Frequency
	Brightness float64
}

type pixelWriter interface {
	Write(p []byte) (int, error)
	Halt() error
}

// Strip mirrors the indicator bank onto a WS281x strip, one pixel per indicator.
type Strip struct {
	mu      sync.Mutex
	port    spi.PortCloser
	opts    StripOpts
	dev     pixelWriter
	digits  int
	enabled bool
	rows    [model.Rows]byte
	log     zerolog.Logger
}

func NewStrip(port spi.PortCloser, opts *StripOpts, log zerolog.Logger) *Strip {
	o := StripOpts{Freq: ((RefreshRate * 3) + 100) * physic.KiloHertz, Brightness: 0.5}
	if opts != nil {
		if opts.Freq > 0 {
			o.Freq = opts.Freq
		}
		if opts.Brightness > 0 {
			o.Brightness = opts.Brightness
		}
	}
	return &Strip{
		port: port,
		opts: o,
		log:  log.With().Str("component", "strip").Logger(),
	}
}

func OpenStrip(name string, opts *StripOpts, log zerolog.Logger) (*Strip, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	return NewStrip(p, opts, log), nil
}

func (s *Strip) Init(pins monitor.Pins, digits int) error {
	if err := checkDigits(digits); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		d, err := nrzled.NewSPI(s.port, &nrzled.Opts{
			NumPixels: model.Capacity,
			Channels:  3,
			Freq:      s.opts.Freq,
		})
		if err != nil {
			return fmt.Errorf("nrzled: %w", err)
		}
		s.dev = d
	}
	s.digits = digits
	s.enabled = false
	s.rows = [model.Rows]byte{}
	s.log.Debug().Int("digits", digits).Float64("brightness", s.opts.Brightness).Msg("strip ready")
	return s.flush()
}

func (s *Strip) SetEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	return s.flush()
}

func (s *Strip) SetRow(row int, pattern byte) error {
	if err := checkRow(row); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row] = pattern
	return s.flush()
}

func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev != nil {
		if err := s.dev.Halt(); err != nil {
			s.log.Warn().Err(err).Msg("halt strip")
		}
		s.dev = nil
	}
	return s.port.Close()
}

func (s *Strip) flush() error {
	if s.dev == nil {
		return fmt.Errorf("strip not initialized")
	}
	px := Pixels(Image(s.rows, s.digits, s.enabled, s.opts.Brightness))
	if _, err := s.dev.Write(px); err != nil {
		return fmt.Errorf("strip write: %w", err)
	}
	return nil
}
