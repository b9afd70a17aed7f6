package reader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads the rows of one sheet of an xlsx workbook.
type ExcelReader struct {
	// Sheet selects a sheet by name; empty means the first sheet.
	Sheet string
}

func (r *ExcelReader) ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
