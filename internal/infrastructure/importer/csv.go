package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// MaxRows caps the number of data rows accepted per upload
const MaxRows = 5000

// Row is one parsed CSV data row keyed by header name
type Row map[string]string

// Parser reads header-keyed rows out of an uploaded CSV file
type Parser struct {
	delimiter rune
	trimSpace bool
}

// Option is a functional option for Parser configuration
type Option func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// WithTrimSpace controls trimming of leading/trailing spaces (default on)
func WithTrimSpace(trim bool) Option {
	return func(p *Parser) {
		p.trimSpace = trim
	}
}

// NewParser creates a CSV parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter: ',',
		trimSpace: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the whole file: the first record is the header, every following
// record becomes a Row. A UTF-8 BOM on the first header cell is stripped.
func (p *Parser) Parse(r io.Reader, requiredColumns []string) ([]Row, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = p.delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = p.trimSpace

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if p.trimSpace {
			h = strings.TrimSpace(h)
		}
		headers[i] = strings.ToLower(h)
	}

	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h == "" {
			return nil, fmt.Errorf("header contains an empty column name")
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q in header", h)
		}
		seen[h] = true
	}
	for _, required := range requiredColumns {
		if !seen[required] {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		if len(rows) >= MaxRows {
			return nil, fmt.Errorf("file exceeds the %d row limit", MaxRows)
		}
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", len(rows)+2, len(record), len(headers))
		}

		row := make(Row, len(headers))
		empty := true
		for i, value := range record {
			if p.trimSpace {
				value = strings.TrimSpace(value)
			}
			if value != "" {
				empty = false
			}
			row[headers[i]] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
