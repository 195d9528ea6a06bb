package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

var testPins = monitor.Pins{Data: 12, Clock: 11, Load: 10}

func TestSimWithMonitor(t *testing.T) {
	sim := NewSim()
	m := monitor.New(sim)
	require.NoError(t, m.Begin(testPins, 3))

	assert.True(t, sim.Enabled())
	assert.Equal(t, 3, sim.Writes())
	pins, digits := sim.Link()
	assert.Equal(t, testPins, pins)
	assert.Equal(t, monitor.DefaultDigits, digits)
	assert.Equal(t, m.Rows(), sim.Rows())

	require.NoError(t, m.SetIndicator(2, model.Red))
	assert.Equal(t, byte(0b00000100), sim.Rows()[1])
}

func TestSimRejectsBadInput(t *testing.T) {
	sim := NewSim()
	assert.Error(t, sim.Init(testPins, 0))
	assert.Error(t, sim.Init(testPins, 9))
	assert.Error(t, sim.SetRow(-1, 0xff))
	assert.Error(t, sim.SetRow(8, 0xff))
	assert.Zero(t, sim.Writes())
}
