package ml

import (
	"fmt"
	"sort"

	"airbnb-classifier/models"
)

// FeatureNames lists the model's feature columns in matrix order.
func FeatureNames() []string {
	return []string{
		"neighbourhood_group_encoded",
		"neighbourhood_encoded",
		"room_type_encoded",
		"minimum_nights",
		"number_of_reviews",
	}
}

// Features builds the numeric matrix and ordinal price-category labels from
// the cleaned records. Every row is fully populated, so the matrix has no
// missing values.
func Features(cleaned []*models.CleanedListing) ([][]float64, []int) {
	X := make([][]float64, len(cleaned))
	y := make([]int, len(cleaned))
	for i, l := range cleaned {
		X[i] = []float64{
			float64(l.GroupCode),
			float64(l.NeighbourhoodCode),
			float64(l.RoomTypeCode),
			float64(l.MinimumNights),
			float64(l.NumberOfReviews),
		}
		y[i] = models.CategoryIndex(l.PriceCategory)
	}
	return X, y
}

// RankedImportances pairs per-column importance weights with their feature
// names, most informative first. Name order breaks ties so the ranking is
// stable.
func RankedImportances(weights []float64) []models.FeatureWeight {
	names := FeatureNames()
	out := make([]models.FeatureWeight, 0, len(weights))
	for f, w := range weights {
		name := fmt.Sprintf("feature_%d", f)
		if f < len(names) {
			name = names[f]
		}
		out = append(out, models.FeatureWeight{Name: name, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out
}
