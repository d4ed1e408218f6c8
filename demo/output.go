package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	"github.com/sartorproj/goseries/packet"
	"github.com/sartorproj/goseries/timeseries"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	slotColor  = color.New(color.Bold)
	dimColor   = color.New(color.Faint)
	warnColor  = color.New(color.FgYellow)
)

// packetSummary is the printable view of one packet.
type packetSummary struct {
	ID     string        `json:"id"`
	Source string        `json:"source,omitempty"`
	Slots  []slotSummary `json:"slots"`
}

type slotSummary struct {
	Slot      string          `json:"slot"`
	Kind      string          `json:"kind"`
	Rows      int             `json:"rows,omitempty"`
	Start     string          `json:"start,omitempty"`
	End       string          `json:"end,omitempty"`
	Freq      string          `json:"freq,omitempty"`
	Columns   []columnSummary `json:"columns,omitempty"`
	TableCols []string        `json:"table_columns,omitempty"`
}

// columnSummary mirrors timeseries.Summary with NaN mapped to null.
type columnSummary struct {
	Column  string   `json:"column"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Mean    *float64 `json:"mean"`
	Std     *float64 `json:"std"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

func summarize(c *packet.Container) []packetSummary {
	out := make([]packetSummary, 0, c.Len())
	for _, p := range c.Packets {
		ps := packetSummary{ID: p.ID.String(), Source: p.Source}
		for i, v := range p.Values() {
			ps.Slots = append(ps.Slots, summarizeSlot(packet.Slots[i], v))
		}
		out = append(out, ps)
	}
	return out
}

func summarizeSlot(slot packet.Slot, v packet.Value) slotSummary {
	sum := slotSummary{Slot: string(slot), Kind: v.Kind()}
	switch {
	case v.Series() != nil:
		s := v.Series()
		sum.Rows = s.Len()
		sum.Freq = s.Freq.String()
		if s.Len() > 0 {
			sum.Start = s.Start().Format("2006-01-02 15:04:05")
			sum.End = s.End().Format("2006-01-02 15:04:05")
		}
		for _, d := range s.Describe() {
			sum.Columns = append(sum.Columns, columnFromSummary(d))
		}
	case v.Table() != nil:
		sum.Rows = v.Table().Len()
		sum.TableCols = v.Table().Columns
	}
	return sum
}

func columnFromSummary(d timeseries.Summary) columnSummary {
	return columnSummary{
		Column:  d.Column,
		Count:   d.Count,
		Missing: d.Missing,
		Mean:    finite(d.Mean),
		Std:     finite(d.Std),
		Min:     finite(d.Min),
		Max:     finite(d.Max),
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func printSummary(w io.Writer, agentName string, packets []packetSummary) {
	titleColor.Fprintf(w, "Agent %s produced %d packet(s)\n", agentName, len(packets))
	if len(packets) == 0 {
		warnColor.Fprintln(w, "  no packets to show")
		return
	}

	for i, p := range packets {
		fmt.Fprintln(w)
		titleColor.Fprintf(w, "[%d] packet %s", i+1, p.ID)
		if p.Source != "" {
			dimColor.Fprintf(w, " (%s)", p.Source)
		}
		fmt.Fprintln(w)

		for _, s := range p.Slots {
			slotColor.Fprintf(w, "  %-18s", s.Slot)
			switch s.Kind {
			case "series":
				fmt.Fprintf(w, "series, %d rows, %s to %s, freq %s\n", s.Rows, s.Start, s.End, s.Freq)
				for _, c := range s.Columns {
					fmt.Fprintf(w, "    %-16s mean %s  std %s  min %s  max %s  missing %d\n",
						c.Column, num(c.Mean), num(c.Std), num(c.Min), num(c.Max), c.Missing)
				}
			case "table":
				fmt.Fprintf(w, "table, %d rows, columns %s\n", s.Rows, strings.Join(s.TableCols, ", "))
			default:
				dimColor.Fprintln(w, "absent")
			}
		}
	}
}

func num(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}
