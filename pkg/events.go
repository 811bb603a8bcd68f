package lappd

import "fmt"

// Photon is one detected photon: transverse and parallel position (mm) and
// detection time (ps).
type Photon struct {
	Trans float64
	Para  float64
	Time  float64
}

type EventType struct {
	EventID uint32
	Photons []Photon
}

type SimulatedEvent struct {
	EventID  uint32
	NPhotons int
	NPulses  int
	// Waveforms by electronic channel, see Geometry.Channel
	Waveforms map[uint16][]float64
	// Photons that could not be simulated
	Rejected int
	Error    bool
}

// SimulateEvent clears the response, adds every photon of the event and
// synthesizes the traces of all strips at the requested ends. Photons with
// invalid coordinates are logged and counted as rejected. The caller is
// expected to reseed the response beforehand for reproducible events.
func (r *Response) SimulateEvent(event EventType, sampling Sampling, sides []Side) (SimulatedEvent, error) {
	if err := sampling.Validate(); err != nil {
		return SimulatedEvent{EventID: event.EventID, Error: true}, err
	}
	r.Reset()

	result := SimulatedEvent{
		EventID:   event.EventID,
		NPhotons:  len(event.Photons),
		Waveforms: make(map[uint16][]float64),
	}
	for i, photon := range event.Photons {
		if err := r.AddSinglePhotonTrace(photon.Trans, photon.Para, photon.Time); err != nil {
			message := fmt.Errorf("event %d photon %d: %w", event.EventID, i, err)
			logger.Error(message.Error())
			result.Rejected++
		}
	}
	result.NPulses = r.cluster.NPulses()

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Event %d: %d photons, %d pulses on %d strips", event.EventID,
			len(event.Photons), result.NPulses, len(r.cluster.Strips()))
		logger.Info(message, "response")
	}

	for _, side := range sides {
		traces, err := r.GetTraces(side, sampling)
		if err != nil {
			result.Error = true
			return result, fmt.Errorf("event %d: %w", event.EventID, err)
		}
		for _, trace := range traces {
			channel, err := r.geometry.Channel(trace.Strip, side)
			if err != nil {
				result.Error = true
				return result, err
			}
			result.Waveforms[channel] = trace.Samples
		}
	}
	return result, nil
}
