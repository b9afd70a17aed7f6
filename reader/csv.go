package reader

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVReader reads delimiter-separated files. Bank exports are frequently
// ragged (header lines with fewer cells than data lines), so records of any
// length are accepted.
type CSVReader struct {
	// Comma overrides the field separator; zero means ','.
	Comma rune
}

func (r *CSVReader) ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}
	return rows, nil
}
