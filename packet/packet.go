// Package packet defines the data model shared by all templates: a Packet
// with four named slots and the Container that carries packets through an
// agent.
package packet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sartorproj/goseries/table"
	"github.com/sartorproj/goseries/timeseries"
)

// ErrUnknownSlot is returned for slot names outside the closed set.
var ErrUnknownSlot = errors.New("unknown slot")

// Slot names one of the four fields of a Packet.
type Slot string

const (
	Content          Slot = "content"
	PastCovariates   Slot = "past_covariates"
	FutureCovariates Slot = "future_covariates"
	Predictions      Slot = "predictions"
)

// Slots lists every slot in declaration order.
var Slots = []Slot{Content, PastCovariates, FutureCovariates, Predictions}

// ParseSlot validates a slot name.
func ParseSlot(name string) (Slot, error) {
	for _, s := range Slots {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: content, past_covariates, future_covariates, predictions)", ErrUnknownSlot, name)
}

// ParseSlots validates a list of slot names.
func ParseSlots(names []string) ([]Slot, error) {
	out := make([]Slot, len(names))
	for i, n := range names {
		s, err := ParseSlot(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Value is the content of a slot: absent, a table, or a series.
// The zero Value is absent.
type Value struct {
	table  *table.Table
	series *timeseries.Series
}

// TableValue wraps raw tabular data. A nil table yields an absent Value.
func TableValue(t *table.Table) Value {
	return Value{table: t}
}

// SeriesValue wraps a constructed series. A nil series yields an absent Value.
func SeriesValue(s *timeseries.Series) Value {
	return Value{series: s}
}

// IsAbsent reports whether the slot holds nothing.
func (v Value) IsAbsent() bool {
	return v.table == nil && v.series == nil
}

// Table returns the tabular data, or nil.
func (v Value) Table() *table.Table {
	return v.table
}

// Series returns the series, or nil.
func (v Value) Series() *timeseries.Series {
	return v.series
}

// Kind describes the value for logs: "absent", "table" or "series".
func (v Value) Kind() string {
	switch {
	case v.series != nil:
		return "series"
	case v.table != nil:
		return "table"
	default:
		return "absent"
	}
}

// Packet is one time series example.
type Packet struct {
	ID               uuid.UUID
	Source           string
	Content          Value
	PastCovariates   Value
	FutureCovariates Value
	Predictions      Value
}

// New creates a packet with a fresh ID and content set.
func New(content Value) *Packet {
	return &Packet{ID: uuid.New(), Content: content}
}

// field maps a slot onto the packet's struct field.
func (p *Packet) field(s Slot) (*Value, error) {
	switch s {
	case Content:
		return &p.Content, nil
	case PastCovariates:
		return &p.PastCovariates, nil
	case FutureCovariates:
		return &p.FutureCovariates, nil
	case Predictions:
		return &p.Predictions, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, string(s))
}

// Get returns the value of slot s.
func (p *Packet) Get(s Slot) (Value, error) {
	f, err := p.field(s)
	if err != nil {
		return Value{}, err
	}
	return *f, nil
}

// Values returns the value of every slot, in the order of Slots.
func (p *Packet) Values() []Value {
	return []Value{p.Content, p.PastCovariates, p.FutureCovariates, p.Predictions}
}

// Set overwrites slot s with v.
func (p *Packet) Set(s Slot, v Value) error {
	f, err := p.field(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Container is the ordered batch of packets passed through an agent.
type Container struct {
	Packets []*Packet
}

// NewContainer creates a container holding packets.
func NewContainer(packets ...*Packet) *Container {
	return &Container{Packets: packets}
}

// Len returns the number of packets.
func (c *Container) Len() int {
	return len(c.Packets)
}

// Append adds a packet at the end.
func (c *Container) Append(p *Packet) {
	c.Packets = append(c.Packets, p)
}

// First returns the first packet, or nil when the container is empty.
func (c *Container) First() *Packet {
	if len(c.Packets) == 0 {
		return nil
	}
	return c.Packets[0]
}
