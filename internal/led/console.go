package led

import (
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

type drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Console prints the bank to the terminal, one coloured block per indicator.
type Console struct {
	mu      sync.Mutex
	d       drawer
	out     io.Writer
	digits  int
	enabled bool
	rows    [model.Rows]byte
}

func NewConsole() *Console {
	return newConsole(screen.New(model.Capacity), os.Stdout)
}

func newConsole(d drawer, out io.Writer) *Console {
	return &Console{d: d, out: out, digits: model.Rows}
}

func (c *Console) Init(pins monitor.Pins, digits int) error {
	if err := checkDigits(digits); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digits = digits
	c.enabled = false
	c.rows = [model.Rows]byte{}
	return nil
}

func (c *Console) SetEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	return c.render()
}

func (c *Console) SetRow(row int, pattern byte) error {
	if err := checkRow(row); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[row] = pattern
	return c.render()
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.d.Halt()
}

func (c *Console) render() error {
	im := Image(c.rows, c.digits, c.enabled, 1)
	if err := c.d.Draw(c.d.Bounds(), im, image.Point{}); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n")
	return nil
}
