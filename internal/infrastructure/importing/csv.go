package importing

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// CSVReader parses tracker CSV exports. Exports repeat some headers
// (several Comment columns, one per entry); values under a repeated
// header are merged into one field, joined by newlines.
type CSVReader struct {
	reader     *csv.Reader
	headers    []string
	headerIdx  map[string][]int
	currentRow int
}

// NewCSVReader wraps a reader, strips a UTF-8 BOM if present and
// validates the encoding
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	p := &CSVReader{reader: cr, headerIdx: make(map[string][]int)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

func (p *CSVReader) parseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		p.headers[i] = header
		p.headerIdx[header] = append(p.headerIdx[header], i)
	}
	p.currentRow = 1
	return nil
}

// Headers returns the header names in file order, duplicates included
func (p *CSVReader) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVReader) HasHeader(name string) bool {
	_, ok := p.headerIdx[name]
	return ok
}

// ValidateHeaders returns the required headers that are absent
func (p *CSVReader) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one parsed record with duplicate columns already merged
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the merged value for a header
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every field is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next record
func (p *CSVReader) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}
	p.currentRow++

	row := &Row{LineNumber: p.currentRow, Data: make(map[string]string, len(p.headerIdx))}
	for header, indexes := range p.headerIdx {
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
	return row, nil
}

// ReadAllRows reads every remaining record, skipping blank lines
func (p *CSVReader) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
