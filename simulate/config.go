package main

import (
	"encoding/json"
	"fmt"
	"os"

	lappd "github.com/next-exp/lappd_go/pkg"
)

func LoadConfiguration(filename string) (lappd.Configuration, error) {
	var config lappd.Configuration

	// Set default values
	config.Verbosity = 0
	config.CalibrationFile = "pulsecharacteristics.h5"
	config.UseDB = false
	config.Host = "localhost"
	config.User = "lappdreader"
	config.Passwd = "readonly"
	config.DBName = "LAPPD"
	config.RunNumber = 0
	config.NumWorkers = 1
	config.Seed = 1
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.StartTime = 0
	config.SampleSize = 100
	config.NumSamples = 256
	config.Noise = 2
	config.CompressionLevel = 4
	config.WriteLeft = true
	config.WriteRight = true
	config.WriteData = true

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, validateConfiguration(config)
}

func validateConfiguration(config lappd.Configuration) error {
	if config.FileIn == "" {
		return fmt.Errorf("file_in is required")
	}
	if config.WriteData && config.FileOut == "" {
		return fmt.Errorf("file_out is required to write data")
	}
	if !config.UseDB && config.CalibrationFile == "" {
		return fmt.Errorf("calibration_file is required when not using the database")
	}
	if config.NumWorkers < 1 {
		return fmt.Errorf("num_workers must be at least 1, got %d", config.NumWorkers)
	}
	if len(config.Sides()) == 0 {
		return fmt.Errorf("at least one of write_left and write_right must be set")
	}
	if config.CompressionLevel < 0 || config.CompressionLevel > 9 {
		return fmt.Errorf("compression_level must be between 0 and 9, got %d", config.CompressionLevel)
	}
	if err := config.Sampling().Validate(); err != nil {
		return fmt.Errorf("sampling: %w", err)
	}
	return nil
}

func printConfiguration(config lappd.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Calibration file: %s", config.CalibrationFile), "config")
	logger.Info(fmt.Sprintf("Use DB: %t", config.UseDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Seed: %d", config.Seed), "config")
	logger.Info(fmt.Sprintf("Start time: %g ps", config.StartTime), "config")
	logger.Info(fmt.Sprintf("Sample size: %g ps", config.SampleSize), "config")
	logger.Info(fmt.Sprintf("Number of samples: %d", config.NumSamples), "config")
	logger.Info(fmt.Sprintf("Noise: %g mV", config.Noise), "config")
	logger.Info(fmt.Sprintf("Write left: %t", config.WriteLeft), "config")
	logger.Info(fmt.Sprintf("Write right: %t", config.WriteRight), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
