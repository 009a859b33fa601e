package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() Dataset {
	return Dataset{
		Headers: []string{"Aluno", "Média"},
		Rows: []map[string]string{
			{"Aluno": "Ana", "Média": "7.5"},
			{"Aluno": "Bruno, Jr.", "Média": "n/a"},
		},
		Numeric: []string{"Média"},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "Aluno,Média\nAna,7.5\n\"Bruno, Jr.\",n/a\n", string(out))

	out, err = NewCSVExporter(WithSeparator(';')).Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "Aluno;Média\nAna;7,5\nBruno, Jr.;n/a\n", string(out))

	out, err = NewCSVExporter(WithBOM()).Render(sample())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "\xEF\xBB\xBFAluno,"))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sample(), "Notas")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestXLSXRenderWritesNumbers(t *testing.T) {
	out, err := NewXLSXExporter().Render(sample(), "Notas: 1º/2024")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Notas- 1º-2024", sheet)

	avg, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "7.5", avg)
	cellType, err := f.GetCellType(sheet, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)

	text, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "n/a", text)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), maxSheetName)
	assert.Equal(t, "a(b)", sheetName("a[b]"))
}
