// Package metrics exposes Prometheus metrics for the indicator driver.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coreman2200/statusmonitor/internal/led"
	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

var (
	rowWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statusmonitor",
		Subsystem: "driver",
		Name:      "row_writes_total",
		Help:      "Row register writes issued to the driver",
	}, []string{"row"})

	driverErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statusmonitor",
		Subsystem: "driver",
		Name:      "errors_total",
		Help:      "Driver calls that returned an error",
	}, []string{"op"})

	driverEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "statusmonitor",
		Subsystem: "driver",
		Name:      "enabled",
		Help:      "1 when the display output is enabled",
	})

	indicatorColor = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "statusmonitor",
		Subsystem: "indicator",
		Name:      "color",
		Help:      "Lit colour per indicator: 0 green, 1 yellow, 2 red, -1 off",
	}, []string{"index"})
)

// Driver wraps a backend and records every call.
type Driver struct {
	next led.Driver
}

func Instrument(d led.Driver) *Driver {
	return &Driver{next: d}
}

func (d *Driver) Init(pins monitor.Pins, digits int) error {
	if err := d.next.Init(pins, digits); err != nil {
		driverErrors.WithLabelValues("init").Inc()
		return err
	}
	for i := 0; i < model.Capacity; i++ {
		indicatorColor.WithLabelValues(strconv.Itoa(i)).Set(-1)
	}
	return nil
}

func (d *Driver) SetEnabled(enabled bool) error {
	if err := d.next.SetEnabled(enabled); err != nil {
		driverErrors.WithLabelValues("enable").Inc()
		return err
	}
	if enabled {
		driverEnabled.Set(1)
	} else {
		driverEnabled.Set(0)
	}
	return nil
}

func (d *Driver) SetRow(row int, pattern byte) error {
	if err := d.next.SetRow(row, pattern); err != nil {
		driverErrors.WithLabelValues("row").Inc()
		return err
	}
	rowWrites.WithLabelValues(strconv.Itoa(row)).Inc()

	r := model.RowPair(pattern)
	for _, s := range []model.Slot{model.First, model.Second} {
		v := -1.0
		if c, ok := r.Color(s); ok {
			v = float64(c)
		}
		indicatorColor.WithLabelValues(strconv.Itoa(row*2 + int(s))).Set(v)
	}
	return nil
}

func (d *Driver) Close() error {
	return d.next.Close()
}

// Unwrap returns the instrumented backend.
func (d *Driver) Unwrap() led.Driver {
	return d.next
}
