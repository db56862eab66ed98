package experiment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Row is one line of a results file:
//
//	run_id parameter_count fractional_test_error architecture trial
type Row struct {
	RunID        uuid.UUID
	Parameters   int
	TestError    float64
	Architecture string
	Trial        int
}

// ResultsWriter appends rows for a single run to a results file.
type ResultsWriter struct {
	runID  uuid.UUID
	w      *bufio.Writer
	closer io.Closer
}

// NewResultsWriter writes rows tagged with runID to w.
func NewResultsWriter(w io.Writer, runID uuid.UUID) *ResultsWriter {
	return &ResultsWriter{runID: runID, w: bufio.NewWriter(w)}
}

// OpenResults opens path for appending, creating it if needed, and tags
// every row with a fresh random run id.
func OpenResults(path string) (*ResultsWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	rw := NewResultsWriter(file, uuid.New())
	rw.closer = file
	return rw, nil
}

// RunID returns the id written with every row.
func (rw *ResultsWriter) RunID() uuid.UUID {
	return rw.runID
}

// Write appends one result.
func (rw *ResultsWriter) Write(r Result) error {
	_, err := fmt.Fprintf(rw.w, "%s %d %.6f %s %d\n", rw.runID, r.Parameters, r.TestError, r.Architecture, r.Trial)
	return err
}

// WriteAll appends results in order and flushes.
func (rw *ResultsWriter) WriteAll(results []Result) error {
	for _, r := range results {
		if err := rw.Write(r); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return rw.Flush()
}

// Flush writes buffered rows to the underlying writer.
func (rw *ResultsWriter) Flush() error {
	return rw.w.Flush()
}

// Close flushes and closes the file opened by OpenResults. The file is
// closed even when the flush fails.
func (rw *ResultsWriter) Close() error {
	err := rw.Flush()
	if rw.closer != nil {
		err = errors.Join(err, rw.closer.Close())
	}
	return err
}

// ReadRows parses a results file. Blank lines are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	var rows []Row

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 fields, got %d", line, len(fields))
		}

		id, err := uuid.Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid run id: %w", line, err)
		}
		params, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid parameter count: %w", line, err)
		}
		testErr, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid test error: %w", line, err)
		}
		trial, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid trial: %w", line, err)
		}

		rows = append(rows, Row{
			RunID:        id,
			Parameters:   params,
			TestError:    testErr,
			Architecture: fields[3],
			Trial:        trial,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
