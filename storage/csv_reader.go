package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"airbnb-cleaner/models"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("empty file")

// ReadOptions controls how a delimited file is decoded.
type ReadOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// Encoding is the file's charset: utf-8 (default), windows-1252 or latin1.
	// A byte-order mark always wins over this setting.
	Encoding string
}

// LoadCSV reads the delimited file at path into a Table.
func LoadCSV(path string, opts ReadOptions) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f, opts)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	return t, nil
}

// ReadTable decodes a delimited stream. The first record is the header.
// Short records are padded with empty fields and long ones truncated so every
// record matches the header width.
func ReadTable(r io.Reader, opts ReadOptions) (*models.Table, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := &models.Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(t.Records)+1, err)
		}
		t.Records = append(t.Records, fitWidth(rec, len(header)))
	}
	return t, nil
}

func fitWidth(rec []string, width int) []string {
	switch {
	case len(rec) == width:
		return rec
	case len(rec) > width:
		return rec[:width]
	default:
		out := make([]string, width)
		copy(out, rec)
		return out
	}
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}
