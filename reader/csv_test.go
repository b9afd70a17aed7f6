package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReaderRaggedRows(t *testing.T) {
	path := writeTemp(t, "movs.csv", "Cuenta: 123\n05/03/2024,CREDITO,1000234,DEPOSITO,MATRIZ,1250.00,8430.10\n")

	rows, err := (&CSVReader{}).ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 1)
	assert.Len(t, rows[1], 7)
	assert.Equal(t, "1000234", rows[1][2])
}

func TestCSVReaderCustomSeparator(t *testing.T) {
	path := writeTemp(t, "movs.csv", "a;b;c\n1;2;3\n")

	rows, err := (&CSVReader{Comma: ';'}).ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2", "3"}, rows[1])
}

func TestForPath(t *testing.T) {
	r, err := ForPath("x/movimientos.csv")
	require.NoError(t, err)
	assert.IsType(t, &CSVReader{}, r)

	r, err = ForPath("x/movimientos.XLSX")
	require.NoError(t, err)
	assert.IsType(t, &ExcelReader{}, r)

	r, err = ForPath("x/estado.pdf")
	require.NoError(t, err)
	assert.IsType(t, &PDFReader{}, r)

	_, err = ForPath("x/reporte.docx")
	assert.Error(t, err)

	assert.True(t, Supported("a.csv"))
	assert.False(t, Supported("a.docx"))
}
