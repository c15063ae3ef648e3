package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"airbnb-cleaner/utils"
)

// Output formats understood by NewWriter.
const (
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatPostgres = "postgres"
)

// DetectFormat infers the output format from a target path or DSN.
func DetectFormat(target string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(target))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return FormatPostgres, nil
	}
	switch filepath.Ext(lower) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("storage: cannot infer output format from %q", target)
}

// NewWriter opens the backend for format. target is a file path for csv and
// xlsx and a connection string for postgres. An empty format is inferred
// from target.
func NewWriter(ctx context.Context, format, target string, delimiter rune, logger *utils.Logger) (TableWriter, error) {
	if format == "" {
		f, err := DetectFormat(target)
		if err != nil {
			return nil, err
		}
		format = f
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVWriter(target, delimiter)
	case FormatXLSX:
		return NewXLSXWriter(target)
	case FormatPostgres:
		return NewPostgresWriter(ctx, target, logger)
	}
	return nil, fmt.Errorf("storage: unknown output format %q", format)
}
