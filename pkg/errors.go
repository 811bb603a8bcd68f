package lappd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for non-finite or out-of-range arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidStripIndex is returned for strip numbers outside the detector.
	ErrInvalidStripIndex = errors.New("invalid strip index")
)

// InvalidStripError carries the offending strip number.
type InvalidStripError struct {
	Strip int
}

func (e *InvalidStripError) Error() string {
	return fmt.Sprintf("invalid strip index %d", e.Strip)
}

func (e *InvalidStripError) Is(target error) bool {
	return target == ErrInvalidStripIndex
}

// GeometryMismatchError is the panic value raised when the distances to both
// strip ends do not add up to the strip length.
type GeometryMismatchError struct {
	Left   float64
	Right  float64
	Length float64
}

func (e *GeometryMismatchError) Error() string {
	return fmt.Sprintf("strip ends at %g mm and %g mm do not add up to the strip length %g mm",
		e.Left, e.Right, e.Length)
}

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error { return e.Err }

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error { return e.Err }

// ErrReadDataset represents an error when reading a dataset.
type ErrReadDataset struct {
	Name string
	Err  error
}

func (e *ErrReadDataset) Error() string {
	return fmt.Sprintf("error reading dataset %q: %v", e.Name, e.Err)
}

func (e *ErrReadDataset) Unwrap() error { return e.Err }
