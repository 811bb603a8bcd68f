package lappd

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// PulseID indexes a pulse stored in a PulseCluster.
type PulseID int

// PulseCluster stores the pulses of a simulation run and organizes them by
// strip. Pulses are kept in one slice and strips refer to them by index, in
// insertion order.
type PulseCluster struct {
	pulses []Pulse
	strips map[int][]PulseID
}

func NewPulseCluster() *PulseCluster {
	return &PulseCluster{
		pulses: make([]Pulse, 0),
		strips: make(map[int][]PulseID),
	}
}

// addPulse stores the pulse under its own strip and returns its identifier.
// Pulses come only from Response.AddSinglePhotonTrace.
func (c *PulseCluster) addPulse(pulse Pulse) (PulseID, error) {
	if pulse.Strip < 1 {
		return 0, &InvalidStripError{Strip: pulse.Strip}
	}
	if !(pulse.Peak > 0) || math.IsInf(pulse.Peak, 0) {
		return 0, fmt.Errorf("pulse peak %v on strip %d: %w", pulse.Peak, pulse.Strip, ErrInvalidInput)
	}
	id := PulseID(len(c.pulses))
	c.pulses = append(c.pulses, pulse)
	c.strips[pulse.Strip] = append(c.strips[pulse.Strip], id)
	return id, nil
}

// NPulsesStrip returns the number of pulses on a strip, zero for unknown strips.
func (c *PulseCluster) NPulsesStrip(strip int) int {
	return len(c.strips[strip])
}

// PulseNum returns the identifier of the k-th pulse added to a strip.
// Callers must check NPulsesStrip first.
func (c *PulseCluster) PulseNum(strip int, k int) PulseID {
	ids := c.strips[strip]
	if k < 0 || k >= len(ids) {
		panic(fmt.Sprintf("pulse %d requested on strip %d holding %d pulses", k, strip, len(ids)))
	}
	return ids[k]
}

func (c *PulseCluster) Pulse(id PulseID) Pulse {
	return c.pulses[id]
}

// NPulses returns the total number of pulses stored.
func (c *PulseCluster) NPulses() int {
	return len(c.pulses)
}

// Strips returns the strips holding at least one pulse, in increasing order.
func (c *PulseCluster) Strips() []int {
	strips := make([]int, 0, len(c.strips))
	for strip := range c.strips {
		strips = append(strips, strip)
	}
	slices.Sort(strips)
	return strips
}

// StripPulses returns a copy of the pulses on a strip in insertion order.
func (c *PulseCluster) StripPulses(strip int) []Pulse {
	ids := c.strips[strip]
	pulses := make([]Pulse, len(ids))
	for i, id := range ids {
		pulses[i] = c.pulses[id]
	}
	return pulses
}

// Clear removes every pulse, keeping the allocated storage.
func (c *PulseCluster) Clear() {
	c.pulses = c.pulses[:0]
	clear(c.strips)
}
