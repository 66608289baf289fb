// Package tabular reads uploaded spreadsheet-style files into the generic
// row maps the normalization pipelines consume. Only the cells are read
// here; header canonicalization and typing happen downstream.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/recon/backend/internal/domain/normalize"
)

// Parser reads a CSV stream row by row with encoding detection.
type Parser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	maxRows    int
	headers    []string
	currentRow int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// Option is a functional option for Parser configuration
type Option func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) Option {
	return func(p *Parser) {
		p.lazyQuotes = lazy
	}
}

// WithTrimSpace enables trimming of leading/trailing spaces from fields
func WithTrimSpace(trim bool) Option {
	return func(p *Parser) {
		p.trimSpace = trim
	}
}

// WithMaxRows caps how many data rows ReadAll will accept; zero means no cap
func WithMaxRows(n int) Option {
	return func(p *Parser) {
		p.maxRows = n
	}
}

// NewParser creates a parser from a reader, stripping a UTF-8 BOM when
// present and rejecting non-UTF-8 content.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	parser := &Parser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
	}

	for _, opt := range opts {
		opt(parser)
	}

	parser.bufReader = bufio.NewReader(r)

	content, err := parser.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		_, _ = parser.bufReader.Discard(3)
	}

	if err := validateUTF8(parser.bufReader); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(parser.bufReader)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = parser.trimSpace
	parser.reader.FieldsPerRecord = -1 // uploads frequently have ragged rows

	return parser, nil
}

// ParseBytes creates a parser from a byte slice
func ParseBytes(data []byte, opts ...Option) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

// validateUTF8 checks that the content is valid UTF-8
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

// ParseHeader reads and parses the header row. Headers are kept verbatim
// apart from optional whitespace trimming; lowercasing and aliasing are
// the pipelines' job.
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := h
		if p.trimSpace {
			header = trimSpaces(header)
		}
		p.headers[i] = header
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1 // Header is row 1

	return nil
}

// Headers returns the parsed header names
func (p *Parser) Headers() []string {
	return p.headers
}

// readRow reads the next data row mapped by header. Missing trailing
// fields become empty strings so every row carries the full header set.
func (p *Parser) readRow() (normalize.RawRow, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++

	row := make(normalize.RawRow, len(p.headers))
	for i, header := range p.headers {
		if i < len(record) {
			value := record[i]
			if p.trimSpace {
				value = trimSpaces(value)
			}
			row[header] = value
		} else {
			row[header] = ""
		}
	}

	return row, nil
}

// ReadAll reads every remaining data row, skipping rows whose cells are
// all empty. The header must have been parsed first.
func (p *Parser) ReadAll() ([]normalize.RawRow, error) {
	var rows []normalize.RawRow

	for {
		row, err := p.readRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}

		if isEmptyRow(row) {
			continue
		}

		rows = append(rows, row)
		if p.maxRows > 0 && len(rows) > p.maxRows {
			return rows, ErrTooManyRows
		}
	}

	return rows, nil
}

// ParseTable is the one-shot helper the ingest endpoints use: header plus
// all data rows in a single call.
func ParseTable(r io.Reader, opts ...Option) ([]normalize.RawRow, error) {
	parser, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	return parser.ReadAll()
}

func isEmptyRow(row normalize.RawRow) bool {
	for _, v := range row {
		if s, ok := v.(string); !ok || s != "" {
			return false
		}
	}
	return true
}

// trimSpaces trims whitespace from a string
func trimSpaces(s string) string {
	start := 0
	end := len(s)

	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:])
		if !isWhitespace(r) {
			break
		}
		start += size
	}

	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !isWhitespace(r) {
			break
		}
		end -= size
	}

	return s[start:end]
}

// isWhitespace checks if a rune is whitespace
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
