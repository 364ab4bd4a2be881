package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airbnb-classifier/models"
)

func TestCSVWriterHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cleaned.csv")

	w, err := NewCSVWriter(path, true)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	cleaned := []*models.CleanedListing{
		{GroupCode: 1, NeighbourhoodCode: 4, RoomTypeCode: 0, PriceCategory: "medium", MinimumNights: 3, NumberOfReviews: 45},
		{GroupCode: 0, NeighbourhoodCode: 0, RoomTypeCode: 3, PriceCategory: "low", MinimumNights: 1, NumberOfReviews: 0},
	}
	if err := w.WriteCleaned(cleaned); err != nil {
		t.Fatalf("WriteCleaned: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "neighbourhood_group_encoded,neighbourhood_encoded,room_type_encoded,price_category,minimum_nights,number_of_reviews" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "1,4,0,medium,3,45" {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if lines[2] != "0,0,3,low,1,0" {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestCSVWriterWithoutNeighbourhood(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")

	w, err := NewCSVWriter(path, false)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.WriteCleaned([]*models.CleanedListing{
		{GroupCode: 2, RoomTypeCode: 1, PriceCategory: "high", MinimumNights: 7, NumberOfReviews: 12},
	}); err != nil {
		t.Fatalf("WriteCleaned: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "neighbourhood_group_encoded,room_type_encoded,price_category,minimum_nights,number_of_reviews" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2,1,high,7,12" {
		t.Errorf("unexpected row: %s", lines[1])
	}
}
