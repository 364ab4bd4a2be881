package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"airbnb-classifier/models"
)

// CSVWriter writes encoded listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu               sync.Mutex
	file             *os.File
	writer           *csv.Writer
	hasNeighbourhood bool
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
// When hasNeighbourhood is false the neighbourhood_encoded column is left
// out, so the output mirrors the input schema.
func NewCSVWriter(path string, hasNeighbourhood bool) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	header := []string{"neighbourhood_group_encoded"}
	if hasNeighbourhood {
		header = append(header, "neighbourhood_encoded")
	}
	header = append(header, "room_type_encoded", "price_category", "minimum_nights", "number_of_reviews")

	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, hasNeighbourhood: hasNeighbourhood}, nil
}

// WriteCleaned appends one row per cleaned listing.
func (c *CSVWriter) WriteCleaned(listings []*models.CleanedListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{strconv.Itoa(l.GroupCode)}
		if c.hasNeighbourhood {
			row = append(row, strconv.Itoa(l.NeighbourhoodCode))
		}
		row = append(row,
			strconv.Itoa(l.RoomTypeCode),
			l.PriceCategory,
			strconv.FormatInt(l.MinimumNights, 10),
			strconv.FormatInt(l.NumberOfReviews, 10),
		)
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
