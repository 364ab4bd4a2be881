// Package ingest loads the raw listings file into memory. Columns are
// resolved by header name, so the reader accepts any column order and
// tolerates extra columns it does not consume.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"airbnb-classifier/config"
	"airbnb-classifier/models"
	"airbnb-classifier/utils"
)

// Input columns. neighbourhood is optional; both dataset revisions are accepted.
const (
	colGroup   = "neighbourhood_group"
	colNeigh   = "neighbourhood"
	colRoom    = "room_type"
	colPrice   = "price"
	colNights  = "minimum_nights"
	colReviews = "number_of_reviews"
	colAvail   = "availability_365"
)

// ParseError reports a malformed input row or cell. It aborts the run unless
// the reader was configured to skip bad rows.
type ParseError struct {
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("ingest: row %d, column %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("ingest: row %d: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Dataset is one fully parsed input file.
type Dataset struct {
	Records          []*models.RawListing
	HasNeighbourhood bool
	Skipped          []*ParseError
}

// Reader parses the listings CSV.
type Reader struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewReader creates a Reader with the given config and logger.
func NewReader(cfg *config.Config, logger *utils.Logger) *Reader {
	return &Reader{cfg: cfg, logger: logger}
}

// Read loads the file at path. An empty cell becomes a nil field; a non-empty
// cell that fails to parse is a ParseError. With SKIP_BAD_ROWS set, bad rows
// are collected on the returned Dataset instead of aborting the run.
func (r *Reader) Read(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %q: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{colGroup, colRoom, colPrice, colNights, colReviews, colAvail} {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("ingest: input is missing required column %q", name)
		}
	}
	_, hasNeigh := idx[colNeigh]

	ds := &Dataset{HasNeighbourhood: hasNeigh}
	rowNum := 1

	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++

		if err != nil {
			perr := &ParseError{Row: rowNum, Err: err}
			if !r.cfg.SkipBadRows {
				return nil, perr
			}
			r.logger.Warn("[ingest] Skipping row %d: %v", rowNum, err)
			ds.Skipped = append(ds.Skipped, perr)
			continue
		}

		listing, perr := parseRow(cells, idx, hasNeigh, rowNum)
		if perr != nil {
			if !r.cfg.SkipBadRows {
				return nil, perr
			}
			r.logger.Warn("[ingest] Skipping row %d, column %s: %v", perr.Row, perr.Column, perr.Err)
			ds.Skipped = append(ds.Skipped, perr)
			continue
		}
		ds.Records = append(ds.Records, listing)
	}

	if len(ds.Skipped) > 0 {
		r.logger.Info("[ingest] Parsed %d rows from %s (skipped %d malformed)",
			len(ds.Records), path, len(ds.Skipped))
	} else {
		r.logger.Info("[ingest] Parsed %d rows from %s", len(ds.Records), path)
	}
	return ds, nil
}

func parseRow(cells []string, idx map[string]int, hasNeigh bool, row int) (*models.RawListing, *ParseError) {
	listing := &models.RawListing{
		NeighbourhoodGroup: optString(cells[idx[colGroup]]),
		RoomType:           optString(cells[idx[colRoom]]),
	}
	if hasNeigh {
		listing.Neighbourhood = optString(cells[idx[colNeigh]])
	}

	var perr *ParseError
	if listing.Price, perr = optFloat(cells[idx[colPrice]], colPrice, row); perr != nil {
		return nil, perr
	}
	if listing.MinimumNights, perr = optInt(cells[idx[colNights]], colNights, row); perr != nil {
		return nil, perr
	}
	if listing.NumberOfReviews, perr = optInt(cells[idx[colReviews]], colReviews, row); perr != nil {
		return nil, perr
	}
	if listing.Availability365, perr = optInt(cells[idx[colAvail]], colAvail, row); perr != nil {
		return nil, perr
	}
	return listing, nil
}

func optString(cell string) *string {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil
	}
	return &v
}

func optFloat(cell, col string, row int) (*float64, *ParseError) {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &ParseError{Row: row, Column: col, Err: err}
	}
	return &f, nil
}

// optInt parses a count cell. Counts are unsigned in the source data, so a
// negative cell is a parse error, not a present value.
func optInt(cell, col string, row int) (*int64, *ParseError) {
	v := strings.TrimSpace(cell)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 63)
	if err != nil {
		return nil, &ParseError{Row: row, Column: col, Err: err}
	}
	out := int64(n)
	return &out, nil
}
