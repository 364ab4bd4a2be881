package models

// Price category labels, ordered from cheapest to priciest.
const (
	CategoryLow    = "low"
	CategoryMedium = "medium"
	CategoryHigh   = "high"
)

// CategoryNames lists the price categories in ordinal order. The position of
// a name is its integer label for model training.
func CategoryNames() []string {
	return []string{CategoryLow, CategoryMedium, CategoryHigh}
}

// CategoryIndex returns the ordinal label for a category name, or -1 for an
// unknown name.
func CategoryIndex(name string) int {
	switch name {
	case CategoryLow:
		return 0
	case CategoryMedium:
		return 1
	case CategoryHigh:
		return 2
	}
	return -1
}

// RawListing mirrors one input row. Pointer fields are nil when the source
// cell was empty; they stay exactly as parsed for the whole run.
type RawListing struct {
	NeighbourhoodGroup *string
	Neighbourhood      *string
	RoomType           *string
	Price              *float64
	MinimumNights      *int64
	NumberOfReviews    *int64
	Availability365    *int64

	// Encoded augmentation, set during the encoding phase. A nil code means
	// the source value was absent or not in the vocabulary.
	GroupCode         *int
	NeighbourhoodCode *int
	RoomTypeCode      *int
	PriceCategory     string
}

// CleanedListing is the dense output record. It only exists for rows that
// survived outlier filtering and had both price and neighbourhood group
// present, so no field is optional.
type CleanedListing struct {
	GroupCode         int
	NeighbourhoodCode int
	RoomTypeCode      int
	PriceCategory     string
	MinimumNights     int64
	NumberOfReviews   int64
}

// EncodingMap assigns one dense code in [0, N) to each distinct categorical
// value seen in a run. Maps are rebuilt per run and never persisted.
type EncodingMap map[string]int

// Lookup returns the code for v and whether v is in the vocabulary.
func (m EncodingMap) Lookup(v string) (int, bool) {
	code, ok := m[v]
	return code, ok
}

// Size returns the vocabulary size N.
func (m EncodingMap) Size() int {
	return len(m)
}

// ColumnBounds is the inclusive retention interval for one numeric column.
type ColumnBounds struct {
	Lower float64
	Upper float64
}

// Contains reports whether v falls inside the interval.
func (b ColumnBounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// RunSummary captures what the cleaning pipeline did to the dataset.
type RunSummary struct {
	RawCount         int
	FilteredOut      int
	Suppressed       int
	EmittedCount     int
	GroupVocabSize   int
	NeighVocabSize   int
	HasNeighbourhood bool
	PricePolicy      string
	LowThreshold     float64
	HighThreshold    float64
	Bounds           map[string]ColumnBounds
}

// FeatureWeight is one entry of a ranked feature-importance listing.
type FeatureWeight struct {
	Name   string
	Weight float64
}

// ModelReport holds the training and evaluation results for one run.
type ModelReport struct {
	TrainSize     int
	TestSize      int
	TrainAccuracy float64
	TestAccuracy  float64
	Importances   []FeatureWeight
}

// InsightReport is the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalCleaned   int
	CategoryCounts map[string]int
	RoomTypeCounts map[string]int
	GroupCounts    map[int]int
	Summary        *RunSummary
	Model          *ModelReport
}
