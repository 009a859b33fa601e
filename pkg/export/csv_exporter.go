package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Numeric lists headers whose values are written as numbers where the
	// format supports it.
	Numeric []string
}

func (d Dataset) numericSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Numeric))
	for _, h := range d.Numeric {
		set[h] = struct{}{}
	}
	return set
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOption customises a CSVExporter.
type CSVOption func(*CSVExporter)

// WithSeparator sets the field separator. With ';' numeric columns are
// written with a decimal comma, as pt-BR spreadsheets expect.
func WithSeparator(r rune) CSVOption {
	return func(e *CSVExporter) {
		if r != 0 {
			e.comma = r
		}
	}
}

// WithBOM prefixes the output with a UTF-8 byte order mark so Excel detects
// the encoding of accented headers.
func WithBOM() CSVOption {
	return func(e *CSVExporter) { e.bom = true }
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct {
	comma rune
	bom   bool
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter(opts ...CSVOption) *CSVExporter {
	e := &CSVExporter{comma: ','}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	if e.bom {
		buf.Write(utf8BOM)
	}
	writer := csv.NewWriter(buf)
	writer.Comma = e.comma
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	numeric := data.numericSet()
	decimalComma := e.comma == ';'
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			value := row[header]
			if _, ok := numeric[header]; ok && decimalComma {
				value = strings.Replace(value, ".", ",", 1)
			}
			record[i] = value
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
