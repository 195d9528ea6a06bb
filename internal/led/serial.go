package led

import (
	"fmt"
	"io"
	"sync"

	"github.com/tarm/serial"

	"github.com/coreman2200/statusmonitor/monitor"
)

// Frame types understood by the bridge firmware.
const (
	frameInit   byte = 'I'
	frameEnable byte = 'E'
	frameRow    byte = 'R'
)

// Serial forwards driver calls to a microcontroller that owns the chip's 3-wire
// protocol. Frames: 'I' din clk load digits, 'E' 0|1, 'R' row pattern.
type Serial struct {
	mu   sync.Mutex
	port io.WriteCloser
}

func OpenSerial(name string, baud int) (*Serial, error) {
	c := &serial.Config{
		Name: name,
		Baud: baud,
	}
	p, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return NewSerial(p), nil
}

func NewSerial(w io.WriteCloser) *Serial {
	return &Serial{port: w}
}

func (s *Serial) Init(pins monitor.Pins, digits int) error {
	if err := checkDigits(digits); err != nil {
		return err
	}
	for _, p := range []int{pins.Data, pins.Clock, pins.Load} {
		if p < 0 || p > 0xff {
			return fmt.Errorf("pin %d does not fit a frame byte", p)
		}
	}
	return s.send(frameInit, byte(pins.Data), byte(pins.Clock), byte(pins.Load), byte(digits))
}

func (s *Serial) SetEnabled(enabled bool) error {
	var v byte
	if enabled {
		v = 1
	}
	return s.send(frameEnable, v)
}

func (s *Serial) SetRow(row int, pattern byte) error {
	if err := checkRow(row); err != nil {
		return err
	}
	return s.send(frameRow, byte(row), pattern)
}

func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}

func (s *Serial) send(frame ...byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.port.Write(frame); err != nil {
		return fmt.Errorf("failed to send frame %q: %w", frame[0], err)
	}
	return nil
}
