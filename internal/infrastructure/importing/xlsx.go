package importing

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXReader parses TTWOS spreadsheet extracts. Headers are German
// and get translated to the tracker vocabulary before mapping.
type XLSXReader struct {
	headers   []string
	headerIdx map[string][]int
	rows      [][]string
}

// NewXLSXReader reads the first sheet of a TTWOS extract
func NewXLSXReader(r io.Reader) (*XLSXReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	x := &XLSXReader{headerIdx: make(map[string][]int)}
	for i, h := range rows[0] {
		header := TranslateTTWOSHeader(strings.TrimSpace(h))
		x.headers = append(x.headers, header)
		x.headerIdx[header] = append(x.headerIdx[header], i)
	}
	x.rows = rows[1:]
	return x, nil
}

// Headers returns the translated header names
func (x *XLSXReader) Headers() []string {
	return x.headers
}

// HasHeader checks if a translated header exists
func (x *XLSXReader) HasHeader(name string) bool {
	_, ok := x.headerIdx[name]
	return ok
}

// ReadAllRows returns every non-blank data row with duplicate columns
// merged, matching the CSV reader's shape
func (x *XLSXReader) ReadAllRows() []*Row {
	var out []*Row
	for i, record := range x.rows {
		row := &Row{LineNumber: i + 2, Data: make(map[string]string, len(x.headerIdx))}
		for header, indexes := range x.headerIdx {
			var values []string
			for _, idx := range indexes {
				if idx >= len(record) {
					continue
				}
				v := strings.TrimSpace(record[idx])
				if v != "" {
					values = append(values, v)
				}
			}
			row.Data[header] = strings.Join(values, "\n")
		}
		if row.IsEmpty() {
			continue
		}
		out = append(out, row)
	}
	return out
}
