package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/statusmonitor/model"
)

// recordDriver captures every call in order.
type recordDriver struct {
	calls  []string
	rows   [model.Rows]byte
	pins   Pins
	digits int
	fail   map[string]error
}

func (d *recordDriver) Init(pins Pins, digits int) error {
	d.calls = append(d.calls, fmt.Sprintf("init(%d,%d,%d,%d)", pins.Data, pins.Clock, pins.Load, digits))
	d.pins, d.digits = pins, digits
	return d.fail["init"]
}

func (d *recordDriver) SetEnabled(enabled bool) error {
	d.calls = append(d.calls, fmt.Sprintf("enable(%t)", enabled))
	return d.fail["enable"]
}

func (d *recordDriver) SetRow(row int, pattern byte) error {
	d.calls = append(d.calls, fmt.Sprintf("row(%d,%08b)", row, pattern))
	if err := d.fail["row"]; err != nil {
		return err
	}
	d.rows[row] = pattern
	return nil
}

var testPins = Pins{Data: 12, Clock: 11, Load: 10}

func begin(t *testing.T, count int, opts ...Option) (*Monitor, *recordDriver) {
	t.Helper()
	drv := &recordDriver{}
	m := New(drv, opts...)
	require.NoError(t, m.Begin(testPins, count))
	return m, drv
}

func TestClampCount(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 7: 7, 16: 16, 17: 16, 200: 16}
	for in, want := range cases {
		assert.Equal(t, want, ClampCount(in), "ClampCount(%d)", in)

		m, _ := begin(t, in)
		assert.Equal(t, want, m.Count())
	}
}

func TestBeginCallSequence(t *testing.T) {
	_, drv := begin(t, 3)
	assert.Equal(t, []string{
		"init(12,11,10,5)",
		"enable(true)",
		"row(0,00000001)",
		"row(0,00010001)",
		"row(1,00000001)",
	}, drv.calls)
}

func TestBeginScenario(t *testing.T) {
	m, drv := begin(t, 3)
	assert.Equal(t, [model.Rows]byte{0b00010001, 0b00000001}, m.Rows())

	require.NoError(t, m.SetIndicator(2, model.Red))
	assert.Equal(t, byte(0b00000100), m.Rows()[1])

	require.NoError(t, m.SetIndicator(1, model.Yellow))
	assert.Equal(t, byte(0b00100001), m.Rows()[0])

	assert.Equal(t, m.Rows(), drv.rows)
}

func TestBeginAllGreen(t *testing.T) {
	for count := MinIndicators; count <= MaxIndicators; count++ {
		m, _ := begin(t, count, WithDigits(8))
		rows := m.Rows()
		for i := 0; i < model.Capacity; i++ {
			row, slot := model.Locate(i)
			n := model.RowPair(rows[row]).Nibble(slot)
			if i < count {
				assert.Equal(t, uint8(0b0001), n, "count %d index %d", count, i)
			} else {
				assert.Zero(t, n, "count %d index %d", count, i)
			}
		}
	}
}

func TestBeginResetsShadow(t *testing.T) {
	m, _ := begin(t, 4)
	require.NoError(t, m.SetIndicator(3, model.Red))
	require.NoError(t, m.Begin(testPins, 2))
	assert.Equal(t, [model.Rows]byte{0b00010001}, m.Rows())
}

func TestSetIndicatorRoundTrip(t *testing.T) {
	m, _ := begin(t, 16, WithDigits(8))
	for i := 0; i < m.Count(); i++ {
		for _, c := range model.Colors() {
			require.NoError(t, m.SetIndicator(i, c))
			got, err := m.Indicator(i)
			require.NoError(t, err)
			assert.Equal(t, c, got)
		}
	}
}

func TestSetIndicatorIsolation(t *testing.T) {
	m, _ := begin(t, 16, WithDigits(8))
	seq := []struct {
		index int
		color model.Color
	}{
		{0, model.Red}, {1, model.Yellow}, {2, model.Red}, {15, model.Yellow},
		{14, model.Red}, {1, model.Green}, {7, model.Red}, {8, model.Yellow},
	}
	for _, s := range seq {
		before := snapshot(t, m)
		require.NoError(t, m.SetIndicator(s.index, s.color))
		after := snapshot(t, m)
		for i := range before {
			if i != s.index {
				assert.Equal(t, before[i], after[i], "indicator %d changed while setting %d", i, s.index)
			}
		}
		assert.Equal(t, s.color, after[s.index])
	}
}

func TestSetIndicatorIdempotent(t *testing.T) {
	m, drv := begin(t, 6)
	require.NoError(t, m.SetIndicator(5, model.Red))
	once := m.Rows()
	require.NoError(t, m.SetIndicator(5, model.Red))
	assert.Equal(t, once, m.Rows())
	assert.Equal(t, "row(2,01000001)", drv.calls[len(drv.calls)-1])
}

func TestSetIndicatorErrors(t *testing.T) {
	m := New(&recordDriver{})
	assert.ErrorIs(t, m.SetIndicator(0, model.Green), ErrNotInitialized)
	_, err := m.Indicator(0)
	assert.ErrorIs(t, err, ErrNotInitialized)

	m, drv := begin(t, 3)
	calls := len(drv.calls)
	assert.ErrorIs(t, m.SetIndicator(3, model.Red), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.SetIndicator(-1, model.Red), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.SetIndicator(16, model.Red), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.SetIndicator(0, model.Color(3)), ErrInvalidColor)
	_, err = m.Indicator(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Len(t, drv.calls, calls, "rejected calls must not reach the driver")
	assert.Equal(t, [model.Rows]byte{0b00010001, 0b00000001}, m.Rows())
}

func TestDriverErrors(t *testing.T) {
	boom := errors.New("boom")
	for _, op := range []string{"init", "enable", "row"} {
		drv := &recordDriver{fail: map[string]error{op: boom}}
		m := New(drv)
		err := m.Begin(testPins, 2)
		assert.ErrorIs(t, err, boom, op)
		assert.False(t, m.Initialized(), op)
	}

	m, drv := begin(t, 2)
	drv.fail = map[string]error{"row": boom}
	err := m.SetIndicator(1, model.Red)
	assert.ErrorIs(t, err, boom)
	got, err := m.Indicator(1)
	require.NoError(t, err)
	assert.Equal(t, model.Red, got)
}

func TestWithDigits(t *testing.T) {
	_, drv := begin(t, 16, WithDigits(8))
	assert.Equal(t, 8, drv.digits)

	assert.Equal(t, 1, New(nil, WithDigits(0)).Digits())
	assert.Equal(t, 8, New(nil, WithDigits(12)).Digits())
	assert.Equal(t, DefaultDigits, New(nil).Digits())
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	m, _ := begin(t, 12, WithLogger(l))
	require.NoError(t, m.SetIndicator(11, model.Yellow))

	out := buf.String()
	assert.Contains(t, out, `"rows_needed":6`)
	assert.Contains(t, out, `"digits":5`)
	msg := `"` + zerolog.MessageFieldName + `":"set indicator"`
	assert.Contains(t, out, msg)
	assert.Contains(t, out, `"after":"00100001"`)
	assert.Equal(t, 12+1, strings.Count(out, msg))
}

func snapshot(t *testing.T, m *Monitor) []model.Color {
	t.Helper()
	out := make([]model.Color, m.Count())
	for i := range out {
		c, err := m.Indicator(i)
		require.NoError(t, err)
		out[i] = c
	}
	return out
}
