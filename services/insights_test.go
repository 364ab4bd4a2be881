package services

import (
	"testing"

	"airbnb-classifier/models"
	"airbnb-classifier/utils"
)

func sampleCleaned() []*models.CleanedListing {
	return []*models.CleanedListing{
		{GroupCode: 0, RoomTypeCode: RoomEntireHome, PriceCategory: models.CategoryMedium, MinimumNights: 2, NumberOfReviews: 10},
		{GroupCode: 0, RoomTypeCode: RoomPrivateRoom, PriceCategory: models.CategoryLow, MinimumNights: 1, NumberOfReviews: 4},
		{GroupCode: 1, RoomTypeCode: RoomPrivateRoom, PriceCategory: models.CategoryHigh, MinimumNights: 3, NumberOfReviews: 22},
		{GroupCode: 1, RoomTypeCode: RoomSharedRoom, PriceCategory: models.CategoryLow, MinimumNights: 1, NumberOfReviews: 7},
		{GroupCode: 1, RoomTypeCode: RoomOther, PriceCategory: models.CategoryLow, MinimumNights: 5, NumberOfReviews: 0},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewLoggerAt(utils.LevelError))
	r := svc.Generate(sampleCleaned(), nil, nil)

	if r.TotalCleaned != 5 {
		t.Errorf("TotalCleaned: got %d, want 5", r.TotalCleaned)
	}
	if r.CategoryCounts[models.CategoryLow] != 3 {
		t.Errorf("low count: got %d, want 3", r.CategoryCounts[models.CategoryLow])
	}
	if r.CategoryCounts[models.CategoryMedium] != 1 {
		t.Errorf("medium count: got %d, want 1", r.CategoryCounts[models.CategoryMedium])
	}
	if r.CategoryCounts[models.CategoryHigh] != 1 {
		t.Errorf("high count: got %d, want 1", r.CategoryCounts[models.CategoryHigh])
	}
}

func TestInsightRoomTypes(t *testing.T) {
	svc := NewInsightService(utils.NewLoggerAt(utils.LevelError))
	r := svc.Generate(sampleCleaned(), nil, nil)

	if r.RoomTypeCounts["Private room"] != 2 {
		t.Errorf("Private room count: got %d, want 2", r.RoomTypeCounts["Private room"])
	}
	if r.RoomTypeCounts["Other"] != 1 {
		t.Errorf("Other count: got %d, want 1", r.RoomTypeCounts["Other"])
	}
}

func TestInsightGroups(t *testing.T) {
	svc := NewInsightService(utils.NewLoggerAt(utils.LevelError))
	r := svc.Generate(sampleCleaned(), nil, nil)

	if r.GroupCounts[0] != 2 {
		t.Errorf("group 0 count: got %d, want 2", r.GroupCounts[0])
	}
	if r.GroupCounts[1] != 3 {
		t.Errorf("group 1 count: got %d, want 3", r.GroupCounts[1])
	}
}

func TestInsightCarriesSummaryAndModel(t *testing.T) {
	svc := NewInsightService(utils.NewLoggerAt(utils.LevelError))
	summary := &models.RunSummary{RawCount: 10, EmittedCount: 5}
	model := &models.ModelReport{TestAccuracy: 0.8}

	r := svc.Generate(sampleCleaned(), summary, model)
	if r.Summary != summary {
		t.Error("summary not carried through")
	}
	if r.Model != model {
		t.Error("model report not carried through")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewLoggerAt(utils.LevelError))
	r := svc.Generate(nil, nil, nil)
	if r.TotalCleaned != 0 {
		t.Errorf("expected 0 cleaned records for empty input")
	}
}

func TestRoomTypeName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{RoomEntireHome, "Entire home/apt"},
		{RoomPrivateRoom, "Private room"},
		{RoomSharedRoom, "Shared room"},
		{RoomOther, "Other"},
		{99, "Other"},
	}
	for _, tt := range tests {
		if got := RoomTypeName(tt.code); got != tt.want {
			t.Errorf("RoomTypeName(%d) = %q; want %q", tt.code, got, tt.want)
		}
	}
}
