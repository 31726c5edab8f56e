package testreport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotFound is returned when the report file does not exist.
	ErrNotFound = errors.New("test results file not found")
	// ErrUnknownCategory is returned when a suite name matches no catalog category.
	ErrUnknownCategory = errors.New("unknown category")
)

// ReadFile parses a report file from disk.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a report from an io.Reader.
func Read(r io.Reader) (*Report, error) {
	var wire struct {
		Report
		TestSuites *[]Suite `json:"test_suites"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode report: trailing data after JSON document")
	}
	if wire.TestSuites == nil {
		return nil, fmt.Errorf("decode report: missing test_suites")
	}

	rep := wire.Report
	rep.TestSuites = *wire.TestSuites
	return &rep, nil
}
