package h5

import (
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
	lappd "github.com/next-exp/lappd_go/pkg"
)

// Calibration files hold, for each histogram, a 1D dataset with the bin
// contents and a "<name>_range" dataset with its low and high edges.
const rangeSuffix = "_range"

// ReadDistributions loads the pulse template, pulse height distribution and
// pulse width histograms from a calibration file.
func ReadDistributions(filename string) (lappd.Distributions, error) {
	var dists lappd.Distributions
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return dists, &lappd.ErrOpenFile{Filename: filename, Err: err}
	}
	defer f.Close()

	if dists.Template, err = readHistogram(f, lappd.TemplateName); err != nil {
		return dists, err
	}
	if dists.PulseHeight, err = readHistogram(f, lappd.PulseHeightName); err != nil {
		return dists, err
	}
	if dists.PulseWidth, err = readHistogram(f, lappd.PulseWidthName); err != nil {
		return dists, err
	}
	return dists, dists.Validate()
}

// WriteDistributions stores the histograms in the layout ReadDistributions expects.
func WriteDistributions(filename string, dists lappd.Distributions) error {
	if err := dists.Validate(); err != nil {
		return err
	}
	f, err := createFile(filename)
	if err != nil {
		return err
	}
	for _, h := range []*lappd.Histogram{dists.Template, dists.PulseHeight, dists.PulseWidth} {
		if err := writeVector(f, h.Name, h.Contents); err != nil {
			f.Close()
			return err
		}
		if err := writeVector(f, h.Name+rangeSuffix, []float64{h.Low, h.High}); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

func readHistogram(f *hdf5.File, name string) (*lappd.Histogram, error) {
	contents, err := readVector(f, name)
	if err != nil {
		return nil, err
	}
	edges, err := readVector(f, name+rangeSuffix)
	if err != nil {
		return nil, err
	}
	if len(edges) != 2 {
		return nil, &lappd.ErrReadDataset{
			Name: name + rangeSuffix,
			Err:  fmt.Errorf("expected 2 values, found %d", len(edges)),
		}
	}
	return lappd.NewHistogram(name, edges[0], edges[1], contents)
}

func readVector(f *hdf5.File, name string) ([]float64, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, &lappd.ErrReadDataset{Name: name, Err: err}
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, &lappd.ErrReadDataset{Name: name, Err: err}
	}
	if len(dims) != 1 {
		return nil, &lappd.ErrReadDataset{Name: name, Err: fmt.Errorf("expected 1 dimension, found %d", len(dims))}
	}

	data := make([]float64, dims[0])
	if err := dset.Read(&data); err != nil {
		return nil, &lappd.ErrReadDataset{Name: name, Err: err}
	}
	return data, nil
}

func writeVector(f *hdf5.File, name string, data []float64) error {
	dspace, err := hdf5.CreateSimpleDataspace([]uint{uint(len(data))}, nil)
	if err != nil {
		return &lappd.ErrCreateTable{TableName: name, Err: err}
	}
	defer dspace.Close()

	dset, err := f.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, dspace)
	if err != nil {
		return &lappd.ErrCreateTable{TableName: name, Err: err}
	}
	defer dset.Close()

	if err := dset.Write(&data); err != nil {
		return fmt.Errorf("error writing %s: %w", name, err)
	}
	return nil
}
