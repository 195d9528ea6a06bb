package led

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

func TestMAX7219Init(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewMAX7219(spitest.NewRecordRaw(&buf), nil, zerolog.Nop())
	require.NoError(t, d.Init(testPins, 5))

	assert.Equal(t, []byte{
		0x0f, 0x00, // display test off
		0x0b, 0x04, // scan digits 0-4
		0x09, 0x00, // no decode
		0x0a, 0x08, // intensity
		0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00, 0x05, 0x00,
	}, buf.Bytes())
}

func TestMAX7219ZeroIntensityIsDimmest(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewMAX7219(spitest.NewRecordRaw(&buf), &MAX7219Opts{}, zerolog.Nop())
	require.NoError(t, d.Init(testPins, 1))
	assert.Equal(t, []byte{0x0a, 0x00}, buf.Bytes()[6:8])
}

func TestMAX7219InitTwiceConnectsOnce(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewMAX7219(spitest.NewRecordRaw(&buf), &MAX7219Opts{Intensity: 0x1f}, zerolog.Nop())
	require.NoError(t, d.Init(testPins, 1))
	buf.Reset()
	require.NoError(t, d.Init(testPins, 8))
	assert.Equal(t, []byte{0x0f, 0x00, 0x0b, 0x07, 0x09, 0x00, 0x0a, 0x0f}, buf.Bytes()[:8])
	assert.Len(t, buf.Bytes(), 8+16)
}

func TestMAX7219WithMonitor(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewMAX7219(spitest.NewRecordRaw(&buf), nil, zerolog.Nop())
	m := monitor.New(d)
	require.NoError(t, m.Begin(testPins, 3))

	setup := 8 + 2*monitor.DefaultDigits
	assert.Equal(t, []byte{
		0x0c, 0x01,
		0x01, 0b00000001,
		0x01, 0b00010001,
		0x02, 0b00000001,
	}, buf.Bytes()[setup:])

	buf.Reset()
	require.NoError(t, m.SetIndicator(2, model.Red))
	require.NoError(t, m.SetIndicator(1, model.Yellow))
	assert.Equal(t, []byte{0x02, 0b00000100, 0x01, 0b00100001}, buf.Bytes())

	buf.Reset()
	require.NoError(t, d.SetEnabled(false))
	assert.Equal(t, []byte{0x0c, 0x00}, buf.Bytes())
}

func TestMAX7219Errors(t *testing.T) {
	buf := bytes.Buffer{}
	d := NewMAX7219(spitest.NewRecordRaw(&buf), nil, zerolog.Nop())
	assert.Error(t, d.SetRow(0, 0x01), "write before init")
	assert.Error(t, d.Init(testPins, 0))
	require.NoError(t, d.Init(testPins, 2))
	assert.Error(t, d.SetRow(model.Rows, 0x01))
	assert.NoError(t, d.Close())
}
