package led

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

type fakeDrawer struct {
	last  *image.NRGBA
	draws int
}

func (d *fakeDrawer) Bounds() image.Rectangle { return image.Rect(0, 0, model.Capacity, 1) }
func (d *fakeDrawer) Halt() error             { return nil }
func (d *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.last = src.(*image.NRGBA)
	d.draws++
	return nil
}

func TestConsoleRendersBank(t *testing.T) {
	fd := &fakeDrawer{}
	out := bytes.Buffer{}
	c := newConsole(fd, &out)

	m := monitor.New(c)
	require.NoError(t, m.Begin(testPins, 2))
	require.NoError(t, m.SetIndicator(0, model.Red))

	assert.Equal(t, 1+3, fd.draws)
	assert.Equal(t, palette[model.Red], fd.last.NRGBAAt(0, 0))
	assert.Equal(t, palette[model.Green], fd.last.NRGBAAt(1, 0))
	assert.Equal(t, dark, fd.last.NRGBAAt(2, 0))
	assert.Equal(t, 4, bytes.Count(out.Bytes(), []byte("\n")))
}
