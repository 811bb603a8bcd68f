package lappd

type Configuration struct {
	Verbosity        int     `json:"verbosity"`
	FileIn           string  `json:"file_in"`
	FileOut          string  `json:"file_out"`
	CalibrationFile  string  `json:"calibration_file"`
	UseDB            bool    `json:"use_db"`
	Host             string  `json:"host"`
	User             string  `json:"user"`
	Passwd           string  `json:"pass"`
	DBName           string  `json:"dbname"`
	RunNumber        int     `json:"run_number"`
	NumWorkers       int     `json:"num_workers"`
	Seed             uint64  `json:"seed"`
	MaxEvents        int     `json:"max_events"`
	Skip             int     `json:"skip"`
	StartTime        float64 `json:"start_time"`
	SampleSize       float64 `json:"sample_size"`
	NumSamples       int     `json:"num_samples"`
	Noise            float64 `json:"noise"`
	CompressionLevel int     `json:"compression_level"`
	WriteLeft        bool    `json:"write_left"`
	WriteRight       bool    `json:"write_right"`
	WriteData        bool    `json:"write_data"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

// Sampling returns the trace sampling parameters of the configuration.
func (c Configuration) Sampling() Sampling {
	return Sampling{
		StartTime:  c.StartTime,
		SampleSize: c.SampleSize,
		NSamples:   c.NumSamples,
		Noise:      c.Noise,
	}
}

// Sides returns the strip ends selected for readout, left first.
func (c Configuration) Sides() []Side {
	sides := make([]Side, 0, 2)
	if c.WriteLeft {
		sides = append(sides, Left)
	}
	if c.WriteRight {
		sides = append(sides, Right)
	}
	return sides
}
