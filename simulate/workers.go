package main

import (
	"errors"
	"fmt"
	"io"
	"sync"

	lappd "github.com/next-exp/lappd_go/pkg"
)

func worker(id int, response *lappd.Response, jobs <-chan lappd.EventType, results chan<- lappd.SimulatedEvent,
	wg *sync.WaitGroup) {
	defer wg.Done()

	sampling := configuration.Sampling()
	sides := configuration.Sides()
	for event := range jobs {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Worker %d processing event %d", id, event.EventID)
			logger.Info(message, "worker")
		}
		results <- simulateEvent(response, event, sampling, sides)
	}
}

// simulateEvent seeds the response from the event number, so an event
// gives the same traces whichever worker simulates it.
func simulateEvent(response *lappd.Response, event lappd.EventType, sampling lappd.Sampling,
	sides []lappd.Side) (result lappd.SimulatedEvent) {
	defer func() {
		if r := recover(); r != nil {
			errMessage := fmt.Errorf("simulation recovered from panic on event %d: %v", event.EventID, r)
			logger.Error(errMessage.Error())
			result = lappd.SimulatedEvent{EventID: event.EventID, NPhotons: len(event.Photons), Error: true}
		}
	}()

	response.Reseed(configuration.Seed + uint64(event.EventID))
	result, err := response.SimulateEvent(event, sampling, sides)
	if err != nil {
		message := fmt.Errorf("error simulating event %d: %w", event.EventID, err)
		logger.Error(message.Error())
		result.Error = true
	}
	return result
}

func sendEventsToWorkers(fileReader *FileReader, jobs chan<- lappd.EventType) {
	defer close(jobs)
	for {
		event, err := fileReader.getNextEvent()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				message := fmt.Errorf("error reading event: %w", err)
				logger.Error(message.Error())
			}
			return
		}
		jobs <- event
	}
}
