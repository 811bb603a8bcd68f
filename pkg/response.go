package lappd

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Response turns photon hits into strip pulses and synthesizes the traces
// recorded at the strip ends. A Response owns its pulse cluster and random
// source and must not be used from several goroutines at once; the
// distributions can be shared.
type Response struct {
	geometry Geometry
	physics  Physics
	dists    Distributions
	cluster  *PulseCluster
	source   *rand.PCG
	rng      *rand.Rand
}

func NewResponse(dists Distributions, geometry Geometry, physics Physics, seed uint64) (*Response, error) {
	if err := dists.Validate(); err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}
	if err := geometry.Validate(); err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}
	if err := physics.Validate(); err != nil {
		return nil, fmt.Errorf("physics: %w", err)
	}
	source := rand.NewPCG(seed, seed)
	return &Response{
		geometry: geometry,
		physics:  physics,
		dists:    dists,
		cluster:  NewPulseCluster(),
		source:   source,
		rng:      rand.New(source),
	}, nil
}

func (r *Response) Geometry() Geometry {
	return r.geometry
}

func (r *Response) Physics() Physics {
	return r.physics
}

// Cluster gives access to the pulses added so far. Pulses can only be
// added through AddSinglePhotonTrace.
func (r *Response) Cluster() *PulseCluster {
	return r.cluster
}

// Reseed restarts the random sequence used for peak heights and noise.
func (r *Response) Reseed(seed uint64) {
	r.source.Seed(seed, seed)
}

// Reset drops every pulse, ready for a new event.
func (r *Response) Reset() {
	r.cluster.Clear()
}

// AddSinglePhotonTrace adds the pulses induced by one photon detected at
// (trans, para) mm at time ps. Between zero and 2*ClusterHalfSize+1 strips
// receive a pulse.
func (r *Response) AddSinglePhotonTrace(trans, para, time float64) error {
	if !isFinite(trans) || !isFinite(para) || !isFinite(time) {
		return fmt.Errorf("photon at (%v, %v) time %v: %w", trans, para, time, ErrInvalidInput)
	}
	half := r.geometry.HalfLength()
	if para < -half || para > half {
		return fmt.Errorf("parallel coordinate %g outside the strips [%g, %g]: %w", para, -half, half, ErrInvalidInput)
	}

	// Draw a random value for the peak signal
	peak, err := r.dists.PulseHeight.Random(r.rng)
	if err != nil {
		return fmt.Errorf("drawing peak height: %w", err)
	}

	nearest, err := r.geometry.StripIndexOf(trans)
	if err != nil {
		return err
	}
	center, err := r.geometry.CoordinateOf(nearest)
	if err != nil {
		return err
	}
	offCenter := math.Abs(trans - center)

	// charge spreads more when the hit falls between two strips
	sigma := r.dists.PulseWidth.Interpolate(offCenter)
	if !(sigma > 0) {
		return fmt.Errorf("charge spread width %g at %g mm from strip %d: %w", sigma, offCenter, nearest, ErrInvalidInput)
	}

	leftTime, rightTime := r.transitTimes(para)

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Photon at %.3f mm: peak %.3f mV, nearest strip %d, off center %.3f mm, sigma %.3f mm, transit %.2f/%.2f ps",
			trans, peak, nearest, offCenter, sigma, leftTime, rightTime)
		logger.Info(message, "response")
	}

	halfSize := r.physics.ClusterHalfSize
	for strip := nearest - halfSize; strip <= nearest+halfSize; strip++ {
		// windows around the edge strips reach past the anode
		if !r.geometry.ValidStrip(strip) {
			continue
		}
		coordinate, err := r.geometry.CoordinateOf(strip)
		if err != nil {
			return err
		}
		amplitude := gaussian(trans-coordinate, peak, sigma)
		if amplitude <= r.physics.Threshold {
			continue
		}
		if configuration.Verbosity > 2 {
			message := fmt.Sprintf("Strip %d peak value %.3f mV", strip, amplitude)
			logger.Info(message, "response")
		}
		pulse := Pulse{
			Time:      time,
			LeftTime:  leftTime,
			RightTime: rightTime,
			Peak:      amplitude,
			Strip:     strip,
		}
		if _, err := r.cluster.addPulse(pulse); err != nil {
			return err
		}
	}
	return nil
}

// transitTimes returns the propagation delays from para to the left and
// right strip ends.
func (r *Response) transitTimes(para float64) (float64, float64) {
	half := r.geometry.HalfLength()
	left := math.Abs(-half - para)
	right := math.Abs(half - para)
	if math.Abs(left+right-r.geometry.Length) > 1e-9*r.geometry.Length {
		panic(&GeometryMismatchError{Left: left, Right: right, Length: r.geometry.Length})
	}
	speed := r.physics.SignalSpeed()
	return left / speed, right / speed
}

func gaussian(x, amplitude, sigma float64) float64 {
	return amplitude * math.Exp(-x*x/(2*sigma*sigma))
}

// Sampling describes how traces are digitized in time. Times are in ps,
// noise is the full width of the uniform noise in mV.
type Sampling struct {
	StartTime  float64 `json:"start_time"`
	SampleSize float64 `json:"sample_size"`
	NSamples   int     `json:"num_samples"`
	Noise      float64 `json:"noise"`
}

func (s Sampling) Validate() error {
	if !isFinite(s.StartTime) {
		return fmt.Errorf("start time %v: %w", s.StartTime, ErrInvalidInput)
	}
	if !(s.SampleSize > 0) || math.IsInf(s.SampleSize, 0) {
		return fmt.Errorf("sample size %v: %w", s.SampleSize, ErrInvalidInput)
	}
	if s.NSamples <= 0 {
		return fmt.Errorf("number of samples %d: %w", s.NSamples, ErrInvalidInput)
	}
	if !isFinite(s.Noise) || s.Noise < 0 {
		return fmt.Errorf("noise %v: %w", s.Noise, ErrInvalidInput)
	}
	return nil
}

// GetTrace synthesizes the waveform read at one end of a strip. The first
// sample is centred at start and each one lasts sampleSize ps. Every sample
// receives one uniform noise value in [-noise/2, noise/2) plus the template
// of each pulse on the strip, scaled by its peak, within PulseWindow of its
// arrival at that end. The pulse cluster is not modified.
func (r *Response) GetTrace(strip int, side Side, start, sampleSize float64, nSamples int, noise float64) (*Trace, error) {
	if !r.geometry.ValidStrip(strip) {
		return nil, &InvalidStripError{Strip: strip}
	}
	if side != Left && side != Right {
		return nil, fmt.Errorf("side %d: %w", side, ErrInvalidInput)
	}
	sampling := Sampling{StartTime: start, SampleSize: sampleSize, NSamples: nSamples, Noise: noise}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	trace := NewTrace(strip, side, start-sampleSize/2, sampleSize, nSamples)

	// noise goes in exactly once per sample, whatever the number of pulses
	for j := range trace.Samples {
		trace.Samples[j] = noise * (r.rng.Float64() - 0.5)
	}

	window := r.physics.PulseWindow
	for k := 0; k < r.cluster.NPulsesStrip(strip); k++ {
		pulse := r.cluster.Pulse(r.cluster.PulseNum(strip, k))
		arrival := pulse.ArrivalTime(side)
		for j := range trace.Samples {
			t := trace.BinCenter(j)
			if t > arrival && t < arrival+window {
				trace.Samples[j] += pulse.Peak * r.dists.Template.Interpolate(t-arrival)
			}
		}
	}
	return trace, nil
}

// GetTraces synthesizes the traces of every strip at one end, strip 1 first.
func (r *Response) GetTraces(side Side, sampling Sampling) ([]*Trace, error) {
	traces := make([]*Trace, 0, r.geometry.NStrips)
	for strip := 1; strip <= r.geometry.NStrips; strip++ {
		trace, err := r.GetTrace(strip, side, sampling.StartTime, sampling.SampleSize, sampling.NSamples, sampling.Noise)
		if err != nil {
			return nil, fmt.Errorf("trace %d %s: %w", strip, side, err)
		}
		traces = append(traces, trace)
	}
	return traces, nil
}
