package led

import (
	"sync"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

// Sim keeps the driver state in memory. Used when no hardware is attached and as
// the fallback for backends that fail to open.
type Sim struct {
	mu      sync.Mutex
	pins    monitor.Pins
	digits  int
	enabled bool
	rows    [model.Rows]byte
	writes  int
}

func NewSim() *Sim { return &Sim{} }

func (s *Sim) Init(pins monitor.Pins, digits int) error {
	if err := checkDigits(digits); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins, s.digits = pins, digits
	s.rows = [model.Rows]byte{}
	return nil
}

func (s *Sim) SetEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	return nil
}

func (s *Sim) SetRow(row int, pattern byte) error {
	if err := checkRow(row); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row] = pattern
	s.writes++
	return nil
}

func (s *Sim) Close() error { return nil }

func (s *Sim) Rows() [model.Rows]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

func (s *Sim) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Writes counts SetRow calls since creation.
func (s *Sim) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Sim) Link() (monitor.Pins, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pins, s.digits
}
