package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"airbnb-cleaner/models"
)

// CSVWriter writes a cleaned dataset to a delimited file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the file at path. Intermediate
// directories are created automatically. A zero delimiter means ','.
func NewCSVWriter(path string, delimiter rune) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if delimiter != 0 {
		w.Comma = delimiter
	}
	return &CSVWriter{file: f, writer: w}, nil
}

// Write writes the header row followed by every listing.
func (c *CSVWriter) Write(_ context.Context, ds *models.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writer.Write(ds.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := c.writer.WriteAll(ds.Records()); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		_ = c.file.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	return c.file.Close()
}
