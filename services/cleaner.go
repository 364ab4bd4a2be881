package services

import (
	"fmt"

	"airbnb-classifier/config"
	"airbnb-classifier/models"
	"airbnb-classifier/stats"
	"airbnb-classifier/utils"
)

// Columns the outlier filter spans. Bounds are derived per column over the
// full dataset; a record must sit inside every interval to survive.
const (
	colMinimumNights   = "minimum_nights"
	colNumberOfReviews = "number_of_reviews"
	colPrice           = "price"
	colAvailability    = "availability_365"
)

// Cleaner runs the two-pass cleaning pipeline: statistics over the full
// dataset first, then filtering, encoding and emission. Nothing is dropped
// before every vocabulary and bound has been derived.
type Cleaner struct {
	logger *utils.Logger
	pool   *utils.WorkerPool
	policy PricePolicy
}

// NewCleaner creates a Cleaner from the run configuration.
func NewCleaner(cfg *config.Config, logger *utils.Logger) (*Cleaner, error) {
	policy, err := ParsePricePolicy(cfg.PricePolicy)
	if err != nil {
		return nil, err
	}
	return &Cleaner{
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency),
		policy: policy,
	}, nil
}

// Clean processes raw listings and returns the cleaned records together with
// a summary of the run.
func (c *Cleaner) Clean(raw []*models.RawListing, hasNeighbourhood bool) ([]*models.CleanedListing, *models.RunSummary, error) {
	// Pass 1: vocabularies and numeric columns, gathered over the entire
	// dataset. Each job writes its own variable; Wait serializes them all
	// before anything downstream reads.
	groupSet := utils.NewStringSet()
	neighSet := utils.NewStringSet()
	var nights, reviews, prices, avail []float64

	c.pool.Submit(func() {
		for _, r := range raw {
			if r.NeighbourhoodGroup != nil {
				groupSet.Add(NormaliseCategory(*r.NeighbourhoodGroup))
			}
			if r.Neighbourhood != nil {
				neighSet.Add(NormaliseCategory(*r.Neighbourhood))
			}
		}
	})
	c.pool.Submit(func() {
		nights = gatherInts(raw, func(r *models.RawListing) *int64 { return r.MinimumNights })
	})
	c.pool.Submit(func() {
		reviews = gatherInts(raw, func(r *models.RawListing) *int64 { return r.NumberOfReviews })
	})
	c.pool.Submit(func() {
		prices = gatherFloats(raw, func(r *models.RawListing) *float64 { return r.Price })
	})
	c.pool.Submit(func() {
		avail = gatherInts(raw, func(r *models.RawListing) *int64 { return r.Availability365 })
	})
	c.pool.Wait()

	groups := BuildEncoding(groupSet.Values())
	neighs := BuildEncoding(neighSet.Values())
	c.logger.Info("[cleaner] Statistics pass: %d records, %d groups, %d neighbourhoods",
		len(raw), groups.Size(), neighs.Size())

	bounds := make(map[string]models.ColumnBounds, 4)
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{colMinimumNights, nights},
		{colNumberOfReviews, reviews},
		{colPrice, prices},
		{colAvailability, avail},
	} {
		b, err := stats.IQRBounds(col.values)
		if err != nil {
			return nil, nil, fmt.Errorf("cleaner: bounds for %s: %w", col.name, err)
		}
		bounds[col.name] = b
		c.logger.Debug("[cleaner] %s bounds: [%.2f, %.2f]", col.name, b.Lower, b.Upper)
	}

	// Pass 2: filter, then encode and emit the survivors.
	kept := filterInBounds(raw, bounds)
	c.logger.Info("[cleaner] Outlier filter kept %d of %d records (dropped %d)",
		len(kept), len(raw), len(raw)-len(kept))

	cat, err := c.categorizer(kept)
	if err != nil {
		return nil, nil, err
	}
	low, high := cat.Thresholds()

	encoder := NewEncoder(groups, neighs, cat)
	cleaned := make([]*models.CleanedListing, 0, len(kept))
	suppressed := 0
	for _, r := range kept {
		encoder.Encode(r)
		if r.Price == nil || r.NeighbourhoodGroup == nil {
			suppressed++
			continue
		}
		cleaned = append(cleaned, emit(r))
	}
	c.logger.Info("[cleaner] Emitted %d cleaned records (suppressed %d without price or group)",
		len(cleaned), suppressed)

	summary := &models.RunSummary{
		RawCount:         len(raw),
		FilteredOut:      len(raw) - len(kept),
		Suppressed:       suppressed,
		EmittedCount:     len(cleaned),
		GroupVocabSize:   groups.Size(),
		NeighVocabSize:   neighs.Size(),
		HasNeighbourhood: hasNeighbourhood,
		PricePolicy:      c.policy.String(),
		LowThreshold:     low,
		HighThreshold:    high,
		Bounds:           bounds,
	}
	return cleaned, summary, nil
}

// categorizer builds the price categorizer for this run. Percentile
// thresholds come from the filtered dataset, so they are derived here and
// not in pass 1.
func (c *Cleaner) categorizer(kept []*models.RawListing) (*PriceCategorizer, error) {
	if c.policy != PolicyPercentile {
		return NewFixedCategorizer(), nil
	}
	prices := gatherFloats(kept, func(r *models.RawListing) *float64 { return r.Price })
	cat, err := NewPercentileCategorizer(prices)
	if err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}
	return cat, nil
}

// filterInBounds keeps the records whose four filtered columns all fall
// inside their intervals. A record missing any of those fields is dropped.
func filterInBounds(raw []*models.RawListing, bounds map[string]models.ColumnBounds) []*models.RawListing {
	kept := make([]*models.RawListing, 0, len(raw))
	for _, r := range raw {
		if r.MinimumNights == nil || !bounds[colMinimumNights].Contains(float64(*r.MinimumNights)) {
			continue
		}
		if r.NumberOfReviews == nil || !bounds[colNumberOfReviews].Contains(float64(*r.NumberOfReviews)) {
			continue
		}
		if r.Price == nil || !bounds[colPrice].Contains(*r.Price) {
			continue
		}
		if r.Availability365 == nil || !bounds[colAvailability].Contains(float64(*r.Availability365)) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func emit(r *models.RawListing) *models.CleanedListing {
	return &models.CleanedListing{
		GroupCode:         derefCode(r.GroupCode),
		NeighbourhoodCode: derefCode(r.NeighbourhoodCode),
		RoomTypeCode:      derefCode(r.RoomTypeCode),
		PriceCategory:     r.PriceCategory,
		MinimumNights:     derefCount(r.MinimumNights),
		NumberOfReviews:   derefCount(r.NumberOfReviews),
	}
}

func derefCode(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefCount(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func gatherFloats(raw []*models.RawListing, get func(*models.RawListing) *float64) []float64 {
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		if v := get(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func gatherInts(raw []*models.RawListing, get func(*models.RawListing) *int64) []float64 {
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		if v := get(r); v != nil {
			out = append(out, float64(*v))
		}
	}
	return out
}
