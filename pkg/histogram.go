package lappd

import (
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Histogram is a fixed binning 1D histogram. The calibration curves (pulse
// template, pulse height distribution, charge spread width) are stored this
// way.
type Histogram struct {
	Name     string
	Low      float64
	High     float64
	Contents []float64

	curve     interp.PiecewiseLinear
	fitted    bool
	cdf       []float64
	sampleErr error
}

// NewHistogram copies contents and prepares interpolation and sampling.
func NewHistogram(name string, low, high float64, contents []float64) (*Histogram, error) {
	h := &Histogram{
		Name:     name,
		Low:      low,
		High:     high,
		Contents: append([]float64(nil), contents...),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := h.curve.Fit(h.BinCenters(), h.Contents); err != nil {
		return nil, fmt.Errorf("histogram %s: %w", name, err)
	}
	h.fitted = true
	h.cdf, h.sampleErr = cumulative(h.Contents)
	return h, nil
}

func (h *Histogram) Validate() error {
	if len(h.Contents) < 2 {
		return fmt.Errorf("histogram %s needs at least 2 bins, got %d: %w", h.Name, len(h.Contents), ErrInvalidInput)
	}
	if !isFinite(h.Low) || !isFinite(h.High) || h.Low >= h.High {
		return fmt.Errorf("histogram %s range [%g, %g]: %w", h.Name, h.Low, h.High, ErrInvalidInput)
	}
	for i, c := range h.Contents {
		if !isFinite(c) {
			return fmt.Errorf("histogram %s bin %d is %v: %w", h.Name, i, c, ErrInvalidInput)
		}
	}
	return nil
}

func (h *Histogram) NBins() int {
	return len(h.Contents)
}

func (h *Histogram) BinWidth() float64 {
	return (h.High - h.Low) / float64(len(h.Contents))
}

// BinCenter returns the centre of bin i, counting from zero.
func (h *Histogram) BinCenter(i int) float64 {
	return h.Low + (float64(i)+0.5)*h.BinWidth()
}

func (h *Histogram) BinCenters() []float64 {
	centers := make([]float64, len(h.Contents))
	floats.Span(centers, h.BinCenter(0), h.BinCenter(len(h.Contents)-1))
	return centers
}

// Interpolate evaluates the curve through the bin centres at x. Outside the
// first and last centres the content of the edge bin is returned.
func (h *Histogram) Interpolate(x float64) float64 {
	return h.curve.Predict(x)
}

// Random draws a value distributed like the histogram contents: a bin is
// chosen from the cumulative integral and the value is uniform inside it.
func (h *Histogram) Random(rng *rand.Rand) (float64, error) {
	if h.sampleErr != nil {
		return 0, h.sampleErr
	}
	r := rng.Float64()
	n := len(h.Contents)
	// largest bin whose lower cumulative edge is <= r
	above, _ := slices.BinarySearchFunc(h.cdf, r, func(edge, target float64) int {
		if edge > target {
			return 1
		}
		return -1
	})
	bin := above - 1
	if bin < 0 {
		bin = 0
	}
	if bin > n-1 {
		bin = n - 1
	}
	fraction := 0.0
	if step := h.cdf[bin+1] - h.cdf[bin]; step > 0 {
		fraction = (r - h.cdf[bin]) / step
	}
	return h.Low + h.BinWidth()*(float64(bin)+fraction), nil
}

// Integral returns the sum of the bin contents.
func (h *Histogram) Integral() float64 {
	return floats.Sum(h.Contents)
}

// cumulative returns the normalised cumulative integral with n+1 edges.
func cumulative(contents []float64) ([]float64, error) {
	if floats.Min(contents) < 0 {
		return nil, fmt.Errorf("cannot sample a histogram with negative bins: %w", ErrInvalidInput)
	}
	total := floats.Sum(contents)
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("cannot sample a histogram with integral %g: %w", total, ErrInvalidInput)
	}
	cdf := make([]float64, len(contents)+1)
	floats.CumSum(cdf[1:], contents)
	floats.Scale(1/total, cdf)
	cdf[len(contents)] = 1
	return cdf, nil
}

// Distributions groups the calibration curves used by the response.
// They are read only once loaded and may be shared between goroutines.
type Distributions struct {
	// Pulse shape in mV per unit peak versus time since arrival (ps)
	Template *Histogram
	// Peak signal on the central strip (mV)
	PulseHeight *Histogram
	// Transverse charge spread sigma (mm) versus distance to strip centre (mm)
	PulseWidth *Histogram
}

const (
	TemplateName    = "templatepulse"
	PulseHeightName = "PHD"
	PulseWidthName  = "pulsewidth"
)

func (d Distributions) Validate() error {
	if d.Template == nil || d.PulseHeight == nil || d.PulseWidth == nil {
		return fmt.Errorf("missing calibration histogram: %w", ErrInvalidInput)
	}
	for _, h := range []*Histogram{d.Template, d.PulseHeight, d.PulseWidth} {
		if !h.fitted {
			return fmt.Errorf("histogram %s was not built with NewHistogram: %w", h.Name, ErrInvalidInput)
		}
	}
	if d.PulseHeight.sampleErr != nil {
		return fmt.Errorf("histogram %s: %w", d.PulseHeight.Name, d.PulseHeight.sampleErr)
	}
	return nil
}
