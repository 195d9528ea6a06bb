package monitor

// Pins identifies the three lines of the serial link to the driver chip.
type Pins struct {
	Data  int `yaml:"data" json:"data"`
	Clock int `yaml:"clock" json:"clock"`
	Load  int `yaml:"load" json:"load"`
}

// Driver is the chip-level collaborator. Calls block until the write is issued,
// so consecutive calls reach the hardware in call order.
type Driver interface {
	// Init configures the link and the number of digit rows the chip scans.
	Init(pins Pins, digits int) error
	// SetEnabled switches the whole display on or off.
	SetEnabled(enabled bool) error
	// SetRow writes the 8 segments of row (0-7).
	SetRow(row int, pattern byte) error
}
