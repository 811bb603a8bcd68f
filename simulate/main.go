package main

import (
	"cmp"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	lappd "github.com/next-exp/lappd_go/pkg"
	"github.com/next-exp/lappd_go/pkg/h5"
	"golang.org/x/exp/slices"
)

var configuration lappd.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	logger = NewLogger(slog.LevelDebug)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	lappd.SetConfiguration(configuration)
	lappd.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	if err := run(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	start := time.Now()

	dists, err := loadDistributions(configuration)
	if err != nil {
		return fmt.Errorf("Error loading calibration: %w", err)
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return &lappd.ErrOpenFile{Filename: configuration.FileIn, Err: err}
	}
	defer file.Close()

	fileReader := NewFileReader(file, configuration.Skip, configuration.MaxEvents)

	jobs := make(chan lappd.EventType, 100)
	results := make(chan lappd.SimulatedEvent, 100)

	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		response, err := lappd.NewResponse(dists, lappd.DefaultGeometry(), lappd.DefaultPhysics(), configuration.Seed)
		if err != nil {
			return fmt.Errorf("Error creating response: %w", err)
		}
		wg.Add(1)
		go worker(w, response, jobs, results, &wg)
	}
	go sendEventsToWorkers(fileReader, jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	simulatedEvents := make([]lappd.SimulatedEvent, 0)
	for event := range results {
		simulatedEvents = append(simulatedEvents, event)
	}
	slices.SortFunc(simulatedEvents, func(a, b lappd.SimulatedEvent) int {
		return cmp.Compare(a.EventID, b.EventID)
	})
	message := fmt.Sprintf("Total events simulated: %d", len(simulatedEvents))
	logger.Info(message, "main")

	if configuration.WriteData {
		if err := writeEvents(simulatedEvents); err != nil {
			return err
		}
	}

	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "main")
	return nil
}

func loadDistributions(config lappd.Configuration) (lappd.Distributions, error) {
	if !config.UseDB {
		if config.Verbosity > 0 {
			logger.Info(fmt.Sprintf("Reading calibration from %s", config.CalibrationFile), "main")
		}
		return h5.ReadDistributions(config.CalibrationFile)
	}

	dbConn, err := lappd.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return lappd.Distributions{}, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()
	return lappd.LoadDistributions(dbConn, config.RunNumber)
}

func writeEvents(events []lappd.SimulatedEvent) (err error) {
	writer, err := h5.NewWriter(configuration.FileOut, configuration.CompressionLevel)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := writer.WriteRunInfo(configuration.RunNumber, configuration.Sampling()); err != nil {
		return err
	}

	geometry := lappd.DefaultGeometry()
	written := 0
	for _, event := range events {
		if event.Error {
			message := fmt.Sprintf("discarding event %d", event.EventID)
			logger.Error(message)
			continue
		}
		if err := writer.WriteEvent(&event, geometry); err != nil {
			return err
		}
		written++
	}
	logger.Info(fmt.Sprintf("Events written: %d", written), "main")
	return nil
}
