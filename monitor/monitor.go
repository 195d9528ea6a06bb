// Package monitor drives a bank of tri-colour status indicators through a single
// MAX7219-family LED driver.
//
// Two indicators share each of the chip's row registers. The Monitor keeps a shadow
// copy of the rows so that changing one indicator rewrites only its own row and
// never disturbs its neighbour.
package monitor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coreman2200/statusmonitor/model"
)

const (
	MinIndicators = 1
	MaxIndicators = model.Capacity

	// DefaultDigits is the scan limit of the first-generation board. It covers ten
	// indicators; boards with more must raise it with WithDigits.
	DefaultDigits = 5
)

// Monitor is not safe for concurrent use. Callers must serialise every call,
// including calls from signal or interrupt style handlers.
type Monitor struct {
	drv    Driver
	log    zerolog.Logger
	digits int
	count  int
	ready  bool
	shadow model.Shadow
}

type Option func(*Monitor)

// WithLogger receives a debug-level trace of every indicator update.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// WithDigits sets the number of rows the driver is told to scan, clamped to 1..8.
func WithDigits(n int) Option {
	return func(m *Monitor) { m.digits = clamp(n, 1, model.Rows) }
}

func New(drv Driver, opts ...Option) *Monitor {
	m := &Monitor{
		drv:    drv,
		log:    zerolog.Nop(),
		digits: DefaultDigits,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// ClampCount applies the indicator count policy: fewer than one becomes one, more
// than sixteen becomes sixteen.
func ClampCount(n int) int {
	return clamp(n, MinIndicators, MaxIndicators)
}

// Begin configures and enables the driver, then lights every configured indicator
// green. Each indicator costs one row write.
func (m *Monitor) Begin(pins Pins, count int) error {
	m.ready = false
	m.count = ClampCount(count)
	if m.count != count {
		m.log.Warn().Int("requested", count).Int("count", m.count).Msg("indicator count clamped")
	}
	if need := rowsFor(m.count); need > m.digits {
		m.log.Warn().
			Int("indicators", m.count).
			Int("rows_needed", need).
			Int("digits", m.digits).
			Msg("driver scans fewer rows than the indicators occupy")
	}

	if err := m.drv.Init(pins, m.digits); err != nil {
		return fmt.Errorf("init driver: %w", err)
	}
	if err := m.drv.SetEnabled(true); err != nil {
		return fmt.Errorf("enable driver: %w", err)
	}

	m.shadow.Reset()
	m.ready = true
	for i := 0; i < m.count; i++ {
		if err := m.SetIndicator(i, model.Green); err != nil {
			m.ready = false
			return err
		}
	}
	m.log.Debug().Int("indicators", m.count).Int("digits", m.digits).Msg("monitor ready")
	return nil
}

// SetIndicator lights indicator index in colour c and pushes its row to the driver.
// On a driver error the shadow still holds the requested state.
func (m *Monitor) SetIndicator(index int, c model.Color) error {
	if err := m.check(index); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidColor, uint8(c))
	}

	row, slot := model.Locate(index)
	before := m.shadow[row].Byte()
	row, value, err := m.shadow.Set(index, c)
	if err != nil {
		return err
	}

	m.log.Debug().
		Int("index", index).
		Stringer("color", c).
		Int("row", row).
		Uint8("slot", uint8(slot)).
		Str("before", fmt.Sprintf("%08b", before)).
		Str("after", fmt.Sprintf("%08b", value)).
		Msg("set indicator")

	if err := m.drv.SetRow(row, value); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func (m *Monitor) Indicator(index int) (model.Color, error) {
	if err := m.check(index); err != nil {
		return 0, err
	}
	c, ok := m.shadow.Color(index)
	if !ok {
		return 0, fmt.Errorf("indicator %d has no color lit", index)
	}
	return c, nil
}

func (m *Monitor) Count() int        { return m.count }
func (m *Monitor) Digits() int       { return m.digits }
func (m *Monitor) Initialized() bool { return m.ready }

// Rows returns a copy of the shadow register.
func (m *Monitor) Rows() [model.Rows]byte {
	return m.shadow.Bytes()
}

func (m *Monitor) check(index int) error {
	if !m.ready {
		return ErrNotInitialized
	}
	if index < 0 || index >= m.count {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, m.count)
	}
	return nil
}

func rowsFor(count int) int {
	return (count + 1) / 2
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
