package lappd

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSeed = 42

// triangleTemplate rises linearly to 1 at 500 ps and falls back to 0 at
// 2500 ps, sampled in 10 ps bins over the 3000 ps window.
func triangleTemplate(t *testing.T) *Histogram {
	t.Helper()
	contents := make([]float64, 300)
	for i := range contents {
		x := (float64(i) + 0.5) * 10
		switch {
		case x < 500:
			contents[i] = x / 500
		case x < 2500:
			contents[i] = (2500 - x) / 2000
		}
	}
	h, err := NewHistogram(TemplateName, 0, 3000, contents)
	require.NoError(t, err)
	return h
}

// narrowPHD draws peak heights in [40, 41) mV.
func narrowPHD(t *testing.T) *Histogram {
	t.Helper()
	contents := make([]float64, 100)
	contents[40] = 1
	h, err := NewHistogram(PulseHeightName, 0, 100, contents)
	require.NoError(t, err)
	return h
}

// uniformPHD draws peak heights uniformly in [0, 100) mV.
func uniformPHD(t *testing.T) *Histogram {
	t.Helper()
	contents := make([]float64, 100)
	for i := range contents {
		contents[i] = 1
	}
	h, err := NewHistogram(PulseHeightName, 0, 100, contents)
	require.NoError(t, err)
	return h
}

func constantWidth(t *testing.T, sigma float64) *Histogram {
	t.Helper()
	h, err := NewHistogram(PulseWidthName, 0, 4, []float64{sigma, sigma, sigma, sigma})
	require.NoError(t, err)
	return h
}

func testDistributions(t *testing.T) Distributions {
	t.Helper()
	return Distributions{
		Template:    triangleTemplate(t),
		PulseHeight: narrowPHD(t),
		PulseWidth:  constantWidth(t, 5),
	}
}

func newTestResponse(t *testing.T, dists Distributions) *Response {
	t.Helper()
	r, err := NewResponse(dists, DefaultGeometry(), DefaultPhysics(), testSeed)
	require.NoError(t, err)
	return r
}

// firstPeak returns the peak height a response seeded with testSeed draws first.
func firstPeak(t *testing.T, dists Distributions) float64 {
	t.Helper()
	rng := rand.New(rand.NewPCG(testSeed, testSeed))
	peak, err := dists.PulseHeight.Random(rng)
	require.NoError(t, err)
	return peak
}

func expectedTemplateSum(template *Histogram, pulses []Pulse, side Side, t float64, window float64) float64 {
	sum := 0.0
	for _, p := range pulses {
		arrival := p.ArrivalTime(side)
		if t > arrival && t < arrival+window {
			sum += p.Peak * template.Interpolate(t-arrival)
		}
	}
	return sum
}

func gaussianAt(x, peak, sigma float64) float64 {
	return peak * math.Exp(-x*x/(2*sigma*sigma))
}

func mustAddPulse(t *testing.T, c *PulseCluster, p Pulse) PulseID {
	t.Helper()
	id, err := c.addPulse(p)
	require.NoError(t, err)
	return id
}
