package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"airbnb-cleaner/models"
)

// SheetName is the worksheet the cleaned listings are written to.
const SheetName = "listings"

// XLSXWriter writes a cleaned dataset to a single-sheet workbook.
type XLSXWriter struct {
	path string
	file *excelize.File
}

// NewXLSXWriter prepares a workbook that is saved to path on Write.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	return &XLSXWriter{path: path, file: f}, nil
}

// Write streams the header and every listing into the sheet and saves the
// workbook. Numeric columns are stored as numbers; missing values stay blank.
func (x *XLSXWriter) Write(_ context.Context, ds *models.Dataset) error {
	sw, err := x.file.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	header := make([]interface{}, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, l := range ds.Listings {
		row := make([]interface{}, len(ds.Columns))
		for j, c := range ds.Columns {
			row[j] = cellValue(l, c)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

// Close releases the workbook.
func (x *XLSXWriter) Close() error {
	return x.file.Close()
}

func cellValue(l *models.Listing, col string) interface{} {
	switch col {
	case models.ColReviewsPerMonth:
		return floatCell(l.ReviewsPerMonth)
	case models.ColNumBedrooms:
		return floatCell(l.NumBedrooms)
	case models.ColNumBathrooms:
		return floatCell(l.NumBathrooms)
	case models.ColNumBeds:
		return floatCell(l.NumBeds)
	case models.ColSharedBath:
		return floatCell(l.SharedBath)
	case models.ColNumberOfReviews:
		if l.NumberOfReviews == nil {
			return nil
		}
		return *l.NumberOfReviews
	case models.ColHasStarRating:
		return l.HasStarRating
	}
	if v := l.Field(col); v != "" {
		return v
	}
	return nil
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
