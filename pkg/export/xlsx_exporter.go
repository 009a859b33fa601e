package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var invalidSheetChars = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")

// XLSXExporter renders datasets into a single-sheet workbook with a bold,
// filterable header row. Numeric cells are written as numbers.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces workbook bytes. title names the sheet.
func (e *XLSXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for c, h := range data.Headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}

	widths := make([]int, len(data.Headers))
	for c, h := range data.Headers {
		widths[c] = utf8.RuneCountInString(h) + 2
	}

	numeric := data.numericSet()
	for r, row := range data.Rows {
		for c, h := range data.Headers {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			value := row[h]
			_, isNumeric := numeric[h]
			if n, convErr := strconv.ParseFloat(value, 64); convErr == nil && isNumeric {
				err = f.SetCellFloat(sheet, cell, n, -1, 64)
			} else {
				err = f.SetCellStr(sheet, cell, value)
			}
			if err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
			if l := utf8.RuneCountInString(value); l > widths[c] {
				widths[c] = l
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, err
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", bold)
	}
	_ = f.AutoFilter(sheet, "A1:"+last+"1", nil)
	for c, w := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(sheet, col, col, float64(clamp(w, 10, 60)))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(title string) string {
	if title == "" {
		return "Sheet1"
	}
	name := invalidSheetChars.Replace(title)
	if utf8.RuneCountInString(name) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
