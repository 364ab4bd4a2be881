package storage

import "airbnb-classifier/models"

// CleanedWriter is the interface any flat-file backend for encoded
// listings must satisfy.
type CleanedWriter interface {
	WriteCleaned(listings []*models.CleanedListing) error
	Close() error
}

// RunStore persists cleaned listings grouped by pipeline run.
type RunStore interface {
	Write(listings []*models.CleanedListing) (string, error)
	FetchRun(runID string) ([]*models.CleanedListing, error)
	Clear(runID string) error
	Close() error
}
