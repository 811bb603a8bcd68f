package lappd

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistogramValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		low      float64
		high     float64
		contents []float64
	}{
		{"single bin", 0, 1, []float64{1}},
		{"empty", 0, 1, nil},
		{"reversed range", 10, 0, []float64{1, 2}},
		{"empty range", 5, 5, []float64{1, 2}},
		{"infinite range", 0, math.Inf(1), []float64{1, 2}},
		{"nan content", 0, 1, []float64{1, math.NaN()}},
	}
	for _, tt := range tests {
		_, err := NewHistogram(tt.name, tt.low, tt.high, tt.contents)
		require.ErrorIs(t, err, ErrInvalidInput, tt.name)
	}
}

func TestHistogramBinning(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram("h", 0, 10, []float64{1, 3, 2, 4, 0})
	require.NoError(t, err)

	assert.Equal(t, 5, h.NBins())
	assert.InDelta(t, 2.0, h.BinWidth(), 1e-12)
	assert.InDelta(t, 1.0, h.BinCenter(0), 1e-12)
	assert.InDelta(t, 9.0, h.BinCenter(4), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 3, 5, 7, 9}, h.BinCenters(), 1e-12)
	assert.InDelta(t, 10.0, h.Integral(), 1e-12)
}

func TestHistogramContentsAreCopied(t *testing.T) {
	t.Parallel()

	contents := []float64{1, 2, 3}
	h, err := NewHistogram("h", 0, 3, contents)
	require.NoError(t, err)
	contents[0] = 100
	assert.InDelta(t, 1.0, h.Contents[0], 1e-12)
}

func TestHistogramInterpolate(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram("h", 0, 10, []float64{1, 3, 2, 4, 0})
	require.NoError(t, err)

	tests := []struct {
		x    float64
		want float64
	}{
		// at the bin centres
		{1, 1},
		{3, 3},
		{7, 4},
		{9, 0},
		// between centres
		{2, 2},
		{4, 2.5},
		{6.5, 3.5},
		{8, 2},
		// outside the centres the edge bins are held
		{0, 1},
		{-100, 1},
		{9.5, 0},
		{1000, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, h.Interpolate(tt.x), 1e-12, "x=%g", tt.x)
	}
}

func TestHistogramRandomSingleBin(t *testing.T) {
	t.Parallel()

	h, err := NewHistogram("h", 0, 10, []float64{0, 0, 1, 0, 0})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		x, err := h.Random(rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, x, 4.0)
		require.Less(t, x, 6.0)
	}
}

func TestHistogramRandomFollowsContents(t *testing.T) {
	t.Parallel()

	// three times more entries in the upper half
	h, err := NewHistogram("h", 0, 2, []float64{1, 3})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	upper := 0
	const n = 20000
	for i := 0; i < n; i++ {
		x, err := h.Random(rng)
		require.NoError(t, err)
		require.GreaterOrEqual(t, x, 0.0)
		require.Less(t, x, 2.0)
		if x >= 1 {
			upper++
		}
	}
	assert.InDelta(t, 0.75, float64(upper)/n, 0.02)
}

func TestHistogramRandomIsReproducible(t *testing.T) {
	t.Parallel()

	h := uniformPHD(t)
	first := rand.New(rand.NewPCG(testSeed, testSeed))
	second := rand.New(rand.NewPCG(testSeed, testSeed))
	for i := 0; i < 100; i++ {
		a, err := h.Random(first)
		require.NoError(t, err)
		b, err := h.Random(second)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

func TestHistogramRandomRejectsBadContents(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 1))

	empty, err := NewHistogram("empty", 0, 1, []float64{0, 0})
	require.NoError(t, err)
	_, err = empty.Random(rng)
	require.ErrorIs(t, err, ErrInvalidInput)

	negative, err := NewHistogram("negative", 0, 1, []float64{2, -1})
	require.NoError(t, err)
	_, err = negative.Random(rng)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDistributionsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testDistributions(t).Validate())

	missing := testDistributions(t)
	missing.PulseWidth = nil
	require.ErrorIs(t, missing.Validate(), ErrInvalidInput)

	unfitted := testDistributions(t)
	unfitted.Template = &Histogram{Name: TemplateName, Low: 0, High: 1, Contents: []float64{0, 1}}
	require.ErrorIs(t, unfitted.Validate(), ErrInvalidInput)

	emptyPHD, err := NewHistogram(PulseHeightName, 0, 100, make([]float64, 10))
	require.NoError(t, err)
	noPeaks := testDistributions(t)
	noPeaks.PulseHeight = emptyPHD
	require.ErrorIs(t, noPeaks.Validate(), ErrInvalidInput)
}

func TestHistogramRandomSkipsEmptyBins(t *testing.T) {
	t.Parallel()

	// flat cumulative steps on both sides of every populated bin
	h, err := NewHistogram("h", 0, 6, []float64{0, 1, 0, 0, 2, 0})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 5000; i++ {
		x, err := h.Random(rng)
		require.NoError(t, err)
		inFirst := x >= 1 && x < 2
		inSecond := x >= 4 && x < 5
		require.True(t, inFirst || inSecond, "x=%g", x)
	}
}
