package reader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RowReader returns the raw tabular rows of a downloaded report. Header and
// skip-row conventions are bank-specific and handled by the extractor
// profile, not here.
type RowReader interface {
	ReadRows(path string) ([][]string, error)
}

// ForPath picks a reader by file extension.
func ForPath(path string) (RowReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return &CSVReader{}, nil
	case ".xlsx", ".xlsm":
		return &ExcelReader{}, nil
	case ".pdf":
		return &PDFReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// Supported reports whether ForPath knows the file's extension.
func Supported(path string) bool {
	_, err := ForPath(path)
	return err == nil
}
