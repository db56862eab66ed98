package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// Load reads a dataset file.
//
// Format: one example per line, features followed by an integer class label
// in the last column. Columns are separated by commas or whitespace. Blank
// lines and lines starting with '#' are skipped.
//
//	# x1, x2, label
//	0.12, -1.5, 0
//	0.80,  0.3, 1
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	d, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Read parses the Load format from r.
func Read(r io.Reader) (*Dataset, error) {
	var examples []Example

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields, err := splitFields(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, ErrMalformedRow, err)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: %w: need at least one feature and a label", line, ErrMalformedRow)
		}

		x := make([]float64, len(fields)-1)
		for j, f := range fields[:len(fields)-1] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w: %v", line, j+1, ErrMalformedRow, err)
			}
			x[j] = v
		}

		label, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: invalid label: %v", line, ErrMalformedRow, err)
		}

		examples = append(examples, Example{X: x, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	d, err := New(examples)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func splitFields(text string) ([]string, error) {
	if !strings.Contains(text, ",") {
		return strings.Fields(text), nil
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true
	record, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record, nil
}

// Gaussian generates a synthetic classification problem: n examples drawn
// from classes isotropic Gaussian clusters whose centres lie on a circle of
// radius 2 in the first two feature dimensions.
//
// spread is the standard deviation of every cluster.
func Gaussian(n, features, classes int, spread float64, rng *rand.Rand) (*Dataset, error) {
	if n <= 0 || features <= 0 || classes <= 0 {
		return nil, fmt.Errorf("Gaussian: n, features and classes must be positive: %w", ErrEmpty)
	}

	centres := make([][]float64, classes)
	for c := range centres {
		centre := make([]float64, features)
		angle := 2 * math.Pi * float64(c) / float64(classes)
		centre[0] = 2 * math.Cos(angle)
		if features > 1 {
			centre[1] = 2 * math.Sin(angle)
		}
		centres[c] = centre
	}

	examples := make([]Example, n)
	for i := range examples {
		label := i % classes
		x := make([]float64, features)
		for j := range x {
			x[j] = centres[label][j] + spread*rng.NormFloat64()
		}
		examples[i] = Example{X: x, Label: label}
	}

	d, err := New(examples)
	if err != nil {
		return nil, err
	}
	// Labels cycle, so every class is present once n >= classes.
	d.NumClasses = classes
	return d, nil
}
