package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/statusmonitor/model"
	"github.com/coreman2200/statusmonitor/monitor"
)

type assignment struct {
	index int
	color model.Color
}

var setCmd = &cobra.Command{
	Use:     "set INDEX=COLOR...",
	Short:   "Bring the bank up green, then apply the given colours",
	Example: "  statusmonitor set 2=red 1=yellow",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		as, err := parseAssignments(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		mon, drv, _, err := openMonitor(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := drv.Close(); err != nil {
				log.Warn().Err(err).Msg("close driver")
			}
		}()

		for _, a := range as {
			if err := mon.SetIndicator(a.index, a.color); err != nil {
				return err
			}
		}
		printBank(cmd.OutOrStdout(), mon)
		return nil
	},
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%q: want INDEX=COLOR", arg)
		}
		i, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%q: bad index: %w", arg, err)
		}
		c, err := model.ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		out = append(out, assignment{index: i, color: c})
	}
	return out, nil
}

func printBank(w io.Writer, mon *monitor.Monitor) {
	for i := 0; i < mon.Count(); i++ {
		c, err := mon.Indicator(i)
		if err != nil {
			fmt.Fprintf(w, "%2d  -\n", i)
			continue
		}
		fmt.Fprintf(w, "%2d  %s\n", i, c)
	}
	for r, b := range mon.Rows() {
		fmt.Fprintf(w, "row %d  %08b\n", r, b)
	}
}
