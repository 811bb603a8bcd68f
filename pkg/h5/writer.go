package h5

import (
	"errors"
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
	lappd "github.com/next-exp/lappd_go/pkg"
	"golang.org/x/exp/slices"
)

// Writer stores simulated events in the layout used for raw data:
//
//	Run/events          event number and photon/pulse counts
//	Run/runInfo         run number
//	Run/sampling        trace start, sample size, samples and noise
//	Sensors/DataLAPPD   channel -> (strip, side)
//	RD/lappdrwf         waveforms [event][channel][sample]
type Writer struct {
	File                *hdf5.File
	Filename            string
	FirstEvt            bool
	Compression         int
	RunGroup            *hdf5.Group
	RDGroup             *hdf5.Group
	SensorsGroup        *hdf5.Group
	EventTable          *hdf5.Dataset
	RunInfoTable        *hdf5.Dataset
	SamplingTable       *hdf5.Dataset
	ChannelMappingTable *hdf5.Dataset
	Waveforms           *hdf5.Dataset
	Channels            []uint16
	NSamples            int
	EvtCounter          int
}

func NewWriter(filename string, compression int) (*Writer, error) {
	writer := &Writer{Filename: filename, Compression: compression}
	if lappd.GetConfiguration().Verbosity > 0 {
		lappd.GetLogger().Info(fmt.Sprintf("Creating file: %s", filename), "writer")
	}

	var err error
	if writer.File, err = createFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.RDGroup, err = createGroup(writer.File, "RD"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.SensorsGroup, err = createGroup(writer.File, "Sensors"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.EventTable, err = createTable(writer.RunGroup, "events", EventDataHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.SamplingTable, err = createTable(writer.RunGroup, "sampling", SamplingHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.ChannelMappingTable, err = createTable(writer.SensorsGroup, "DataLAPPD", ChannelMappingHDF5{}, compression); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return writer, nil
}

// WriteRunInfo records the run number and trace sampling. Call it once.
func (w *Writer) WriteRunInfo(runNumber int, sampling lappd.Sampling) error {
	if err := writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(runNumber)}, 0); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	entry := SamplingHDF5{
		start_time:  sampling.StartTime,
		sample_size: sampling.SampleSize,
		n_samples:   int32(sampling.NSamples),
		noise:       sampling.Noise,
	}
	if err := writeEntryToTable(w.SamplingTable, entry, 0); err != nil {
		return fmt.Errorf("error writing sampling: %w", err)
	}
	return nil
}

func sortedChannels(waveforms map[uint16][]float64) []uint16 {
	channels := make([]uint16, 0, len(waveforms))
	for channel := range waveforms {
		channels = append(channels, channel)
	}
	slices.Sort(channels)
	return channels
}

func channelMapping(channels []uint16, geometry lappd.Geometry) ([]ChannelMappingHDF5, error) {
	// The array MUST be allocated at creation, if not, HDF5 will panic
	mapping := make([]ChannelMappingHDF5, len(channels))
	for i, channel := range channels {
		strip, side, err := geometry.StripEnd(channel)
		if err != nil {
			return nil, err
		}
		mapping[i] = ChannelMappingHDF5{
			channel: int32(channel),
			strip:   int32(strip),
			side:    int32(side),
		}
	}
	return mapping, nil
}

// WriteEvent appends one event. The channels and number of samples of the
// first event fix the layout of the waveform array.
func (w *Writer) WriteEvent(event *lappd.SimulatedEvent, geometry lappd.Geometry) error {
	if !w.FirstEvt {
		w.Channels = sortedChannels(event.Waveforms)
		if len(w.Channels) == 0 {
			return fmt.Errorf("event %d has no waveforms", event.EventID)
		}
		w.NSamples = len(event.Waveforms[w.Channels[0]])

		mapping, err := channelMapping(w.Channels, geometry)
		if err != nil {
			return err
		}
		if err := writeArrayToTable(w.ChannelMappingTable, &mapping, 0); err != nil {
			return fmt.Errorf("error writing channel mapping: %w", err)
		}
		w.Waveforms, err = create3dArray(w.RDGroup, "lappdrwf", len(w.Channels), w.NSamples, w.Compression)
		if err != nil {
			return err
		}
		w.FirstEvt = true
	}

	// Missing channels are left as zeros
	nChannels := len(w.Channels)
	data := make([]float64, nChannels*w.NSamples)
	for i, channel := range w.Channels {
		waveform, ok := event.Waveforms[channel]
		if !ok {
			continue
		}
		if len(waveform) != w.NSamples {
			return fmt.Errorf("event %d channel %d has %d samples, expected %d",
				event.EventID, channel, len(waveform), w.NSamples)
		}
		copy(data[i*w.NSamples:], waveform)
	}

	entry := EventDataHDF5{
		evt_number: int32(event.EventID),
		n_photons:  int32(event.NPhotons),
		n_pulses:   int32(event.NPulses),
		rejected:   int32(event.Rejected),
	}
	if err := writeEntryToTable(w.EventTable, entry, w.EvtCounter); err != nil {
		return fmt.Errorf("error writing event %d: %w", event.EventID, err)
	}
	if err := write3dArray(w.Waveforms, &data, w.EvtCounter, nChannels, w.NSamples); err != nil {
		return fmt.Errorf("error writing waveforms of event %d: %w", event.EventID, err)
	}
	w.EvtCounter++
	return nil
}

type closer interface {
	Close() error
}

func (w *Writer) Close() error {
	if lappd.GetConfiguration().Verbosity > 0 {
		lappd.GetLogger().Info(fmt.Sprintf("Closing file %s", w.Filename), "writer")
	}
	var errs []error

	// datasets first, then groups, then the file
	items := []struct {
		name string
		item closer
	}{
		{"event table", w.EventTable},
		{"run info table", w.RunInfoTable},
		{"sampling table", w.SamplingTable},
		{"channel mapping table", w.ChannelMappingTable},
		{"waveforms", w.Waveforms},
		{"run group", w.RunGroup},
		{"RD group", w.RDGroup},
		{"sensors group", w.SensorsGroup},
		{"file", w.File},
	}
	for _, it := range items {
		if isNil(it.item) {
			continue
		}
		if err := it.item.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", it.name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func isNil(c closer) bool {
	switch v := c.(type) {
	case *hdf5.Dataset:
		return v == nil
	case *hdf5.Group:
		return v == nil
	case *hdf5.File:
		return v == nil
	}
	return c == nil
}
