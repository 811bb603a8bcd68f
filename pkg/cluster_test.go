package lappd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulseClusterEmpty(t *testing.T) {
	t.Parallel()

	c := NewPulseCluster()
	assert.Equal(t, 0, c.NPulses())
	assert.Empty(t, c.Strips())
	for _, strip := range []int{-3, 0, 5, 30, 1000} {
		assert.Equal(t, 0, c.NPulsesStrip(strip))
	}
	assert.Empty(t, c.StripPulses(5))
}

func TestPulseClusterKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	c := NewPulseCluster()
	added := []Pulse{
		{Time: 10, Peak: 1, Strip: 4},
		{Time: 20, Peak: 2, Strip: 7},
		{Time: 30, Peak: 3, Strip: 4},
		{Time: 40, Peak: 4, Strip: 4},
		{Time: 50, Peak: 5, Strip: 2},
	}
	ids := make([]PulseID, len(added))
	for i, p := range added {
		ids[i] = mustAddPulse(t, c, p)
	}

	assert.Equal(t, len(added), c.NPulses())
	for i, id := range ids {
		assert.Equal(t, added[i], c.Pulse(id))
	}

	require.Equal(t, 3, c.NPulsesStrip(4))
	assert.Equal(t, ids[0], c.PulseNum(4, 0))
	assert.Equal(t, ids[2], c.PulseNum(4, 1))
	assert.Equal(t, ids[3], c.PulseNum(4, 2))
	assert.Equal(t, []Pulse{added[0], added[2], added[3]}, c.StripPulses(4))

	assert.Equal(t, 1, c.NPulsesStrip(7))
	assert.Equal(t, 1, c.NPulsesStrip(2))
	assert.Equal(t, []int{2, 4, 7}, c.Strips())

	// every pulse is filed under its own strip
	for _, strip := range c.Strips() {
		for k := 0; k < c.NPulsesStrip(strip); k++ {
			assert.Equal(t, strip, c.Pulse(c.PulseNum(strip, k)).Strip)
		}
	}
}

func TestPulseClusterPulseNumOutOfRange(t *testing.T) {
	t.Parallel()

	c := NewPulseCluster()
	mustAddPulse(t, c, Pulse{Strip: 3, Peak: 1})

	assert.Panics(t, func() { c.PulseNum(3, 1) })
	assert.Panics(t, func() { c.PulseNum(3, -1) })
	assert.Panics(t, func() { c.PulseNum(8, 0) })
	assert.NotPanics(t, func() { c.PulseNum(3, 0) })
}

func TestPulseClusterClear(t *testing.T) {
	t.Parallel()

	c := NewPulseCluster()
	mustAddPulse(t, c, Pulse{Strip: 3, Peak: 1})
	mustAddPulse(t, c, Pulse{Strip: 9, Peak: 2})
	c.Clear()

	assert.Equal(t, 0, c.NPulses())
	assert.Equal(t, 0, c.NPulsesStrip(3))
	assert.Empty(t, c.Strips())

	id := mustAddPulse(t, c, Pulse{Strip: 9, Peak: 7})
	assert.Equal(t, PulseID(0), id)
	assert.Equal(t, 1, c.NPulsesStrip(9))
	assert.InDelta(t, 7.0, c.Pulse(id).Peak, 1e-12)
}

func TestPulseClusterRejectsInvalidPulses(t *testing.T) {
	t.Parallel()

	c := NewPulseCluster()
	_, err := c.addPulse(Pulse{Strip: 0, Peak: 3})
	require.ErrorIs(t, err, ErrInvalidStripIndex)
	_, err = c.addPulse(Pulse{Strip: -2, Peak: 3})
	require.ErrorIs(t, err, ErrInvalidStripIndex)

	for _, peak := range []float64{-5, 0, math.NaN(), math.Inf(1)} {
		_, err := c.addPulse(Pulse{Strip: 4, Peak: peak})
		require.ErrorIs(t, err, ErrInvalidInput, "peak %v", peak)
	}
	assert.Equal(t, 0, c.NPulses())
	assert.Empty(t, c.Strips())
}

func TestResponsePulsesStayInsideAnode(t *testing.T) {
	t.Parallel()

	r := newTestResponse(t, testDistributions(t))
	g := r.Geometry()
	for _, trans := range []float64{-120, -99.29, 0, 99.29, 120} {
		require.NoError(t, r.AddSinglePhotonTrace(trans, 0, 0))
	}
	for _, strip := range r.Cluster().Strips() {
		require.True(t, g.ValidStrip(strip), "strip %d", strip)
		for _, p := range r.Cluster().StripPulses(strip) {
			assert.Greater(t, p.Peak, r.Physics().Threshold)
		}
	}
}

func TestPulseArrivalTime(t *testing.T) {
	t.Parallel()

	p := Pulse{Time: 1000, LeftTime: 250, RightTime: 750}
	assert.InDelta(t, 250.0, p.TransitTime(Left), 1e-12)
	assert.InDelta(t, 750.0, p.TransitTime(Right), 1e-12)
	assert.InDelta(t, 1250.0, p.ArrivalTime(Left), 1e-12)
	assert.InDelta(t, 1750.0, p.ArrivalTime(Right), 1e-12)
}
