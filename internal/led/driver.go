package led

import (
	"fmt"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

// Driver abstracts a row-addressed LED output sink.
type Driver interface {
	monitor.Driver
	// Close releases resources.
	Close() error
}

func checkRow(row int) error {
	if row < 0 || row >= model.Rows {
		return fmt.Errorf("row %d out of range 0..%d", row, model.Rows-1)
	}
	return nil
}

func checkDigits(digits int) error {
	if digits < 1 || digits > model.Rows {
		return fmt.Errorf("digit count %d out of range 1..%d", digits, model.Rows)
	}
	return nil
}
