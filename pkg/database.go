package lappd

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// HistogramEntry is the binning of a calibration histogram valid for a run range.
type HistogramEntry struct {
	Name  string  `db:"Name"`
	NBins int     `db:"NBins"`
	Low   float64 `db:"Low"`
	High  float64 `db:"High"`
}

type HistogramBin struct {
	Bin     int     `db:"Bin"`
	Content float64 `db:"Content"`
}

// LoadDistributions reads the three calibration histograms valid for a run.
func LoadDistributions(db *sqlx.DB, runNumber int) (Distributions, error) {
	var dists Distributions
	var err error
	dists.Template, err = getHistogramFromDB(db, runNumber, TemplateName)
	if err != nil {
		errMessage := fmt.Errorf("error getting pulse template from database: %w", err)
		logger.Error(errMessage.Error())
		return dists, errMessage
	}
	dists.PulseHeight, err = getHistogramFromDB(db, runNumber, PulseHeightName)
	if err != nil {
		errMessage := fmt.Errorf("error getting pulse height distribution from database: %w", err)
		logger.Error(errMessage.Error())
		return dists, errMessage
	}
	dists.PulseWidth, err = getHistogramFromDB(db, runNumber, PulseWidthName)
	if err != nil {
		errMessage := fmt.Errorf("error getting pulse width from database: %w", err)
		logger.Error(errMessage.Error())
		return dists, errMessage
	}
	return dists, nil
}

func getHistogramFromDB(db *sqlx.DB, runNumber int, name string) (*Histogram, error) {
	query := "SELECT Name, NBins, Low, High FROM LappdHistograms WHERE Name = ? and MinRun <= ? and MaxRun >= ?"
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading %s histogram from database", name)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query, name, runNumber, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	entries := make([]HistogramEntry, 0, 1)
	for rows.Next() {
		result := HistogramEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		entries = append(entries, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	if len(entries) != 1 {
		return nil, fmt.Errorf("expected one %s histogram for run %d, found %d", name, runNumber, len(entries))
	}

	binsQuery := "SELECT Bin, Content FROM LappdHistogramBins WHERE Name = ? and MinRun <= ? and MaxRun >= ? ORDER BY Bin"
	bins := []HistogramBin{}
	if err := db.Select(&bins, binsQuery, name, runNumber, runNumber); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	return histogramFromRows(entries[0], bins)
}

// histogramFromRows builds a histogram from its binning and the non-empty
// bins stored in the database. Missing bins are zero.
func histogramFromRows(entry HistogramEntry, bins []HistogramBin) (*Histogram, error) {
	if entry.NBins < 2 {
		return nil, fmt.Errorf("histogram %s needs at least 2 bins, got %d: %w", entry.Name, entry.NBins, ErrInvalidInput)
	}
	contents := make([]float64, entry.NBins)
	for _, bin := range bins {
		if bin.Bin < 0 || bin.Bin >= entry.NBins {
			return nil, fmt.Errorf("histogram %s: bin %d outside %d bins: %w", entry.Name, bin.Bin, entry.NBins, ErrInvalidInput)
		}
		contents[bin.Bin] = bin.Content
	}
	return NewHistogram(entry.Name, entry.Low, entry.High, contents)
}
