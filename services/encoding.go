package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"airbnb-classifier/models"
	"airbnb-classifier/stats"
)

// Room type codes. The vocabulary is fixed up front rather than learned from
// the data, so every string maps to a code and 3 is the catch-all.
const (
	RoomEntireHome  = 0
	RoomPrivateRoom = 1
	RoomSharedRoom  = 2
	RoomOther       = 3
)

// NormaliseCategory canonicalizes a categorical value before it enters a
// vocabulary or is looked up in one: NFC form, trimmed, internal whitespace
// collapsed. Case and accents are preserved so distinct names keep distinct
// codes.
func NormaliseCategory(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

// BuildEncoding assigns one dense code in [0, N) to each distinct value.
// Values are sorted lexically first, so the same inputs always produce the
// same codes regardless of scan order.
func BuildEncoding(values []string) models.EncodingMap {
	seen := make(map[string]struct{}, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)

	m := make(models.EncodingMap, len(distinct))
	for i, v := range distinct {
		m[v] = i
	}
	return m
}

// EncodeRoomType maps a room type to its fixed code. Absent and unknown
// values both land on RoomOther.
func EncodeRoomType(roomType *string) int {
	if roomType == nil {
		return RoomOther
	}
	switch NormaliseCategory(*roomType) {
	case "Entire home/apt":
		return RoomEntireHome
	case "Private room":
		return RoomPrivateRoom
	case "Shared room":
		return RoomSharedRoom
	default:
		return RoomOther
	}
}

// PricePolicy selects how prices map to the low/medium/high buckets.
type PricePolicy int

const (
	// PolicyFixed buckets at the fixed 100 and 200 price points.
	PolicyFixed PricePolicy = iota
	// PolicyPercentile buckets at the 33rd and 66th percentiles of the
	// filtered dataset's prices.
	PolicyPercentile
)

// ParsePricePolicy maps a config string to a PricePolicy.
func ParsePricePolicy(s string) (PricePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return PolicyFixed, nil
	case "percentile":
		return PolicyPercentile, nil
	default:
		return PolicyFixed, fmt.Errorf("services: unknown price policy %q", s)
	}
}

func (p PricePolicy) String() string {
	if p == PolicyPercentile {
		return "percentile"
	}
	return "fixed"
}

// PriceCategorizer buckets a price into low/medium/high against two
// thresholds. Both edges are strict less-than, so a price exactly on a
// threshold lands in the upper bucket.
type PriceCategorizer struct {
	policy PricePolicy
	low    float64
	high   float64
}

// NewFixedCategorizer returns the categorizer with the fixed 100/200 edges.
func NewFixedCategorizer() *PriceCategorizer {
	return &PriceCategorizer{policy: PolicyFixed, low: 100, high: 200}
}

// NewPercentileCategorizer derives the bucket edges from the given prices,
// which must be the filtered dataset's. Errors on an empty price list.
func NewPercentileCategorizer(prices []float64) (*PriceCategorizer, error) {
	t1, err := stats.Percentile(prices, 33)
	if err != nil {
		return nil, fmt.Errorf("services: low price threshold: %w", err)
	}
	t2, err := stats.Percentile(prices, 66)
	if err != nil {
		return nil, fmt.Errorf("services: high price threshold: %w", err)
	}
	return &PriceCategorizer{policy: PolicyPercentile, low: t1, high: t2}, nil
}

// Categorize returns the bucket name for price.
func (c *PriceCategorizer) Categorize(price float64) string {
	switch {
	case price < c.low:
		return models.CategoryLow
	case price < c.high:
		return models.CategoryMedium
	default:
		return models.CategoryHigh
	}
}

// Thresholds returns the bucket edges in effect.
func (c *PriceCategorizer) Thresholds() (low, high float64) {
	return c.low, c.high
}

// Encoder applies the learned vocabularies and price policy to raw records.
type Encoder struct {
	groups models.EncodingMap
	neighs models.EncodingMap
	cat    *PriceCategorizer
}

// NewEncoder creates an Encoder over the given vocabularies.
func NewEncoder(groups, neighs models.EncodingMap, cat *PriceCategorizer) *Encoder {
	return &Encoder{groups: groups, neighs: neighs, cat: cat}
}

// Encode fills the encoded fields of r in place. An absent or out-of-vocabulary
// categorical leaves its code nil; the room type always gets a code and the
// price category is set whenever a price is present.
func (e *Encoder) Encode(r *models.RawListing) {
	if r.NeighbourhoodGroup != nil {
		if code, ok := e.groups.Lookup(NormaliseCategory(*r.NeighbourhoodGroup)); ok {
			r.GroupCode = &code
		}
	}
	if r.Neighbourhood != nil {
		if code, ok := e.neighs.Lookup(NormaliseCategory(*r.Neighbourhood)); ok {
			r.NeighbourhoodCode = &code
		}
	}

	room := EncodeRoomType(r.RoomType)
	r.RoomTypeCode = &room

	if r.Price != nil {
		r.PriceCategory = e.cat.Categorize(*r.Price)
	}
}
