package reader

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
)

var columnGapRegex = regexp.MustCompile(`\s{2,}`)

// PDFReader extracts text rows from a PDF report and splits them into cells
// on runs of whitespace. Good enough for the fixed-width tabular layouts the
// portals produce; anything fancier belongs in a bank profile upstream.
type PDFReader struct{}

func (r *PDFReader) ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	var rows [][]string
	for no := 1; no <= doc.NumPage(); no++ {
		page := doc.Page(no)
		textRows, err := page.GetTextByRow()
		if err != nil {
			// A bad page should not sink the rest of the report.
			continue
		}
		for _, tr := range textRows {
			var b strings.Builder
			for i, content := range tr.Content {
				b.WriteString(content.S)
				if i < len(tr.Content)-1 {
					b.WriteByte(' ')
				}
			}
			line := strings.TrimSpace(b.String())
			if line == "" {
				continue
			}
			rows = append(rows, columnGapRegex.Split(line, -1))
		}
	}

	return rows, nil
}
