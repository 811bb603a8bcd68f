package lappd

import (
	"fmt"
	"math"
)

// Geometry describes the strip anode. Lengths are in mm.
//
// The anode is Width wide in the transverse direction and holds NStrips
// strips. The first and last strips are wider: the index lookup assigns the
// outer EdgeBand of each side to them, and their centres sit EdgeCenter away
// from the border. The NStrips-2 inner strips are spaced by Pitch, the first
// one centred InnerOffset after the edge band. Strips run Length along the
// parallel direction, centred on zero.
type Geometry struct {
	Width       float64 `json:"width"`
	NStrips     int     `json:"n_strips"`
	EdgeBand    float64 `json:"edge_band"`
	EdgeCenter  float64 `json:"edge_center"`
	Pitch       float64 `json:"pitch"`
	InnerOffset float64 `json:"inner_offset"`
	Length      float64 `json:"length"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		Width:       203.2,
		NStrips:     30,
		EdgeBand:    5.765,
		EdgeCenter:  2.31,
		Pitch:       6.91,
		InnerOffset: 3.455,
		Length:      229.108,
	}
}

// Physics holds the signal formation constants.
type Physics struct {
	// Fraction of the speed of light at which signals travel along a strip
	PropagationFraction float64 `json:"propagation_fraction"`
	// Speed of light in mm/ps
	SpeedOfLight float64 `json:"speed_of_light"`
	// Smallest amplitude (mV) for which a strip receives a pulse
	Threshold float64 `json:"threshold"`
	// Support of the pulse template in ps
	PulseWindow float64 `json:"pulse_window"`
	// Strips on each side of the nearest one that may share the charge
	ClusterHalfSize int `json:"cluster_half_size"`
}

func DefaultPhysics() Physics {
	return Physics{
		PropagationFraction: 0.53,
		SpeedOfLight:        0.299792458,
		Threshold:           0.5,
		PulseWindow:         3000,
		ClusterHalfSize:     2,
	}
}

// SignalSpeed returns the propagation speed on the strips in mm/ps.
func (p Physics) SignalSpeed() float64 {
	return p.PropagationFraction * p.SpeedOfLight
}

func (p Physics) Validate() error {
	if !(p.PropagationFraction > 0) || !(p.SpeedOfLight > 0) {
		return fmt.Errorf("signal speed must be positive: %w", ErrInvalidInput)
	}
	if !isFinite(p.Threshold) || p.Threshold < 0 {
		return fmt.Errorf("threshold %g: %w", p.Threshold, ErrInvalidInput)
	}
	if !(p.PulseWindow > 0) || math.IsInf(p.PulseWindow, 0) {
		return fmt.Errorf("pulse window %g: %w", p.PulseWindow, ErrInvalidInput)
	}
	if p.ClusterHalfSize < 0 {
		return fmt.Errorf("cluster half size %d: %w", p.ClusterHalfSize, ErrInvalidInput)
	}
	return nil
}

func (g Geometry) HalfWidth() float64 {
	return g.Width / 2
}

func (g Geometry) HalfLength() float64 {
	return g.Length / 2
}

func (g Geometry) Validate() error {
	if g.NStrips < 3 {
		return fmt.Errorf("need at least 3 strips, got %d: %w", g.NStrips, ErrInvalidInput)
	}
	// both ends of every strip need a uint16 channel
	if 2*g.NStrips-1 > math.MaxUint16 {
		return fmt.Errorf("%d strips do not fit in %d channels: %w", g.NStrips, math.MaxUint16+1, ErrInvalidInput)
	}
	for _, v := range []float64{g.Width, g.EdgeBand, g.EdgeCenter, g.Pitch, g.InnerOffset, g.Length} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("geometry lengths must be positive and finite: %w", ErrInvalidInput)
		}
	}
	if 2*g.EdgeBand >= g.Width {
		return fmt.Errorf("edge bands %g mm do not fit in %g mm: %w", g.EdgeBand, g.Width, ErrInvalidInput)
	}
	return nil
}

// StripIndexOf returns the strip covering the transverse coordinate trans.
// Coordinates beyond the anode are clamped to the first and last strips.
func (g Geometry) StripIndexOf(trans float64) (int, error) {
	if !isFinite(trans) {
		return 0, fmt.Errorf("transverse coordinate %v: %w", trans, ErrInvalidInput)
	}
	local := trans + g.HalfWidth()

	// the first and last strips have a different width
	if local < g.EdgeBand {
		return 1, nil
	}
	if local > g.Width-g.EdgeBand {
		return g.NStrips, nil
	}

	// divide the remaining strips into the remaining area
	inner := float64(g.NStrips-2) * (local - g.EdgeBand) / (g.Width - 2*g.EdgeBand)
	return 2 + int(math.Floor(inner)), nil
}

// CoordinateOf returns the transverse coordinate of the centre of a strip.
func (g Geometry) CoordinateOf(strip int) (float64, error) {
	switch {
	case strip == 1:
		return g.EdgeCenter - g.HalfWidth(), nil
	case strip == g.NStrips:
		return g.HalfWidth() - g.EdgeCenter, nil
	case strip > 1 && strip < g.NStrips:
		return (g.EdgeBand - g.HalfWidth() + g.InnerOffset) + float64(strip-2)*g.Pitch, nil
	}
	return 0, &InvalidStripError{Strip: strip}
}

// ValidStrip reports whether strip is one of the anode strips.
func (g Geometry) ValidStrip(strip int) bool {
	return strip >= 1 && strip <= g.NStrips
}

// Channel returns the electronic channel reading one end of a strip.
// Left ends take channels 0..NStrips-1, right ends follow.
func (g Geometry) Channel(strip int, side Side) (uint16, error) {
	if !g.ValidStrip(strip) {
		return 0, &InvalidStripError{Strip: strip}
	}
	switch side {
	case Left:
		return uint16(strip - 1), nil
	case Right:
		return uint16(g.NStrips + strip - 1), nil
	}
	return 0, fmt.Errorf("side %d: %w", side, ErrInvalidInput)
}

// StripEnd is the inverse of Channel.
func (g Geometry) StripEnd(channel uint16) (int, Side, error) {
	ch := int(channel)
	switch {
	case ch < g.NStrips:
		return ch + 1, Left, nil
	case ch < 2*g.NStrips:
		return ch - g.NStrips + 1, Right, nil
	}
	return 0, 0, fmt.Errorf("channel %d: %w", channel, ErrInvalidStripIndex)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
