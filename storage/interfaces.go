package storage

import (
	"context"

	"airbnb-cleaner/models"
)

// TableWriter is the interface any output backend must satisfy.
type TableWriter interface {
	Write(ctx context.Context, ds *models.Dataset) error
	Close() error
}

// ListingReader reads cleaned listings back from a backend.
type ListingReader interface {
	FetchAll(ctx context.Context) (*models.Dataset, error)
}
