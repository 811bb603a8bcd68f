package lappd

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Side selects which end of a strip is read out. The values follow the
// parity convention of the scope traces: -1 left, +1 right.
type Side int

const (
	Left  Side = -1
	Right Side = 1
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Trace is the sampled waveform recorded at one end of a strip. Sample j
// covers [Low + j*Width, Low + (j+1)*Width).
type Trace struct {
	Name    string
	Strip   int
	Side    Side
	Low     float64
	Width   float64
	Samples []float64
}

func NewTrace(strip int, side Side, low float64, width float64, nSamples int) *Trace {
	return &Trace{
		Name:    fmt.Sprintf("trace_%d_%s", strip, side),
		Strip:   strip,
		Side:    side,
		Low:     low,
		Width:   width,
		Samples: make([]float64, nSamples),
	}
}

func (t *Trace) BinCenter(j int) float64 {
	return t.Low + (float64(j)+0.5)*t.Width
}

func (t *Trace) High() float64 {
	return t.Low + t.Width*float64(len(t.Samples))
}

// Times returns the sample times (bin centres).
func (t *Trace) Times() []float64 {
	times := make([]float64, len(t.Samples))
	switch len(times) {
	case 0:
	case 1:
		times[0] = t.BinCenter(0)
	default:
		floats.Span(times, t.BinCenter(0), t.BinCenter(len(times)-1))
	}
	return times
}

// Max returns the largest sample and its index.
func (t *Trace) Max() (float64, int) {
	if len(t.Samples) == 0 {
		return 0, -1
	}
	i := floats.MaxIdx(t.Samples)
	return t.Samples[i], i
}
