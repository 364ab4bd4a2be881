package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-classifier/models"
	"airbnb-classifier/stats"
)

func strPtr(s string) *string { return &s }

func TestNormaliseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Brooklyn", "Brooklyn"},
		{"  Brooklyn  ", "Brooklyn"},
		{"Staten   Island", "Staten Island"},
		{"\tHell's\n Kitchen ", "Hell's Kitchen"},
		{"Café District", "Café District"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormaliseCategory(tt.in))
	}
}

func TestBuildEncodingDenseAndDeterministic(t *testing.T) {
	values := []string{"Queens", "Brooklyn", "Manhattan", "Brooklyn", "Bronx"}

	m := BuildEncoding(values)
	require.Equal(t, 4, m.Size())

	// Lexical order fixes the codes regardless of input order.
	wantCodes := map[string]int{"Bronx": 0, "Brooklyn": 1, "Manhattan": 2, "Queens": 3}
	for value, want := range wantCodes {
		code, ok := m.Lookup(value)
		require.True(t, ok, "missing %q", value)
		assert.Equal(t, want, code)
	}

	// Codes are dense over [0, N): every integer appears exactly once.
	seen := make(map[int]int)
	for _, code := range m {
		seen[code]++
	}
	for i := 0; i < m.Size(); i++ {
		assert.Equal(t, 1, seen[i], "code %d", i)
	}

	// Same distinct values in another order give the same map.
	again := BuildEncoding([]string{"Bronx", "Manhattan", "Queens", "Brooklyn"})
	assert.Equal(t, m, again)

	assert.Equal(t, 0, BuildEncoding(nil).Size())
}

func TestEncodeRoomTypeTotal(t *testing.T) {
	tests := []struct {
		in   *string
		want int
	}{
		{strPtr("Entire home/apt"), RoomEntireHome},
		{strPtr("Private room"), RoomPrivateRoom},
		{strPtr("Shared room"), RoomSharedRoom},
		{strPtr("  Private   room "), RoomPrivateRoom},
		{strPtr("Hotel room"), RoomOther},
		{strPtr("entire home/apt"), RoomOther},
		{strPtr(""), RoomOther},
		{nil, RoomOther},
	}

	for _, tt := range tests {
		got := EncodeRoomType(tt.in)
		assert.Equal(t, tt.want, got)
		assert.GreaterOrEqual(t, got, RoomEntireHome)
		assert.LessOrEqual(t, got, RoomOther)
	}
}

func TestParsePricePolicy(t *testing.T) {
	p, err := ParsePricePolicy("fixed")
	require.NoError(t, err)
	assert.Equal(t, PolicyFixed, p)

	p, err = ParsePricePolicy("Percentile")
	require.NoError(t, err)
	assert.Equal(t, PolicyPercentile, p)

	p, err = ParsePricePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFixed, p)

	_, err = ParsePricePolicy("quartile")
	assert.Error(t, err)
}

func TestFixedCategorizerBoundaries(t *testing.T) {
	cat := NewFixedCategorizer()

	tests := []struct {
		price float64
		want  string
	}{
		{0, models.CategoryLow},
		{99.99, models.CategoryLow},
		{100, models.CategoryMedium},
		{150, models.CategoryMedium},
		{199.99, models.CategoryMedium},
		{200, models.CategoryHigh},
		{1500, models.CategoryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cat.Categorize(tt.price), "price %.2f", tt.price)
	}
}

func TestPercentileCategorizer(t *testing.T) {
	prices := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	cat, err := NewPercentileCategorizer(prices)
	require.NoError(t, err)

	low, high := cat.Thresholds()
	assert.Equal(t, 40.0, low)
	assert.Equal(t, 70.0, high)

	assert.Equal(t, models.CategoryLow, cat.Categorize(39))
	assert.Equal(t, models.CategoryMedium, cat.Categorize(40), "threshold price lands in the upper bucket")
	assert.Equal(t, models.CategoryMedium, cat.Categorize(69))
	assert.Equal(t, models.CategoryHigh, cat.Categorize(70))
}

func TestPercentileCategorizerEmptyPrices(t *testing.T) {
	_, err := NewPercentileCategorizer(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrEmptyInput)
}

func TestEncoderLeavesUnknownCategoryUnset(t *testing.T) {
	groups := BuildEncoding([]string{"Brooklyn", "Manhattan"})
	neighs := BuildEncoding([]string{"Harlem"})
	enc := NewEncoder(groups, neighs, NewFixedCategorizer())

	known := &models.RawListing{
		NeighbourhoodGroup: strPtr("Brooklyn"),
		Neighbourhood:      strPtr("Harlem"),
		RoomType:           strPtr("Private room"),
	}
	enc.Encode(known)
	require.NotNil(t, known.GroupCode)
	assert.Equal(t, 0, *known.GroupCode)
	require.NotNil(t, known.NeighbourhoodCode)
	assert.Equal(t, 0, *known.NeighbourhoodCode)
	require.NotNil(t, known.RoomTypeCode)
	assert.Equal(t, RoomPrivateRoom, *known.RoomTypeCode)
	assert.Empty(t, known.PriceCategory, "no price, no category")

	unknown := &models.RawListing{
		NeighbourhoodGroup: strPtr("Atlantis"),
		Neighbourhood:      strPtr("Nowhere"),
	}
	enc.Encode(unknown)
	assert.Nil(t, unknown.GroupCode, "out-of-vocabulary group stays unset")
	assert.Nil(t, unknown.NeighbourhoodCode)
	require.NotNil(t, unknown.RoomTypeCode)
	assert.Equal(t, RoomOther, *unknown.RoomTypeCode)
}
