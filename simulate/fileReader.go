package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	lappd "github.com/next-exp/lappd_go/pkg"
)

// FileReader reads photon hits from a CSV file with the columns
// event,trans,para,time. Consecutive lines with the same event number form
// one event. Lines starting with # and a header line are ignored.
type FileReader struct {
	reader    *csv.Reader
	pending   *hitRecord
	line      int
	Skip      int
	MaxEvents int
	EvtCount  int
}

type hitRecord struct {
	eventID uint32
	photon  lappd.Photon
}

func NewFileReader(r io.Reader, skip int, maxEvents int) *FileReader {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	return &FileReader{reader: reader, Skip: skip, MaxEvents: maxEvents, EvtCount: -1}
}

func (f *FileReader) getNextEvent() (lappd.EventType, error) {
	for {
		event, err := f.readEvent()
		if err != nil {
			return event, err
		}
		f.EvtCount++
		if f.EvtCount >= f.MaxEvents {
			if VerbosityLevel > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return event, io.EOF
		}
		if f.EvtCount < f.Skip {
			if VerbosityLevel > 0 {
				message := fmt.Sprintf("Skipping event %d with ID %d", f.EvtCount, event.EventID)
				logger.Info(message, "fileReader")
			}
			continue
		}
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Reading event %d with ID %d (%d photons)", f.EvtCount, event.EventID, len(event.Photons))
			logger.Info(message, "fileReader")
		}
		return event, nil
	}
}

// readEvent collects the hits of the next event.
func (f *FileReader) readEvent() (lappd.EventType, error) {
	var event lappd.EventType
	if f.pending == nil {
		hit, err := f.readHit()
		if err != nil {
			return event, err
		}
		f.pending = hit
	}
	event.EventID = f.pending.eventID
	event.Photons = append(event.Photons, f.pending.photon)
	f.pending = nil

	for {
		hit, err := f.readHit()
		if errors.Is(err, io.EOF) {
			return event, nil
		}
		if err != nil {
			return event, err
		}
		if hit.eventID != event.EventID {
			f.pending = hit
			return event, nil
		}
		event.Photons = append(event.Photons, hit.photon)
	}
}

func (f *FileReader) readHit() (*hitRecord, error) {
	for {
		record, err := f.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("error reading hits: %w", err)
		}
		f.line++
		eventID, err := strconv.ParseUint(record[0], 10, 32)
		if err != nil {
			if f.line == 1 {
				// header
				continue
			}
			return nil, fmt.Errorf("line %d: invalid event number %q: %w", f.line, record[0], err)
		}
		values := [3]float64{}
		for i := range values {
			values[i], err = strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", f.line, record[i+1], err)
			}
		}
		return &hitRecord{
			eventID: uint32(eventID),
			photon:  lappd.Photon{Trans: values[0], Para: values[1], Time: values[2]},
		}, nil
	}
}
