package services

import (
	"fmt"
	"sort"
	"strings"

	"airbnb-classifier/models"
	"airbnb-classifier/utils"
)

// RoomTypeName returns the display name for a room type code.
func RoomTypeName(code int) string {
	switch code {
	case RoomEntireHome:
		return "Entire home/apt"
	case RoomPrivateRoom:
		return "Private room"
	case RoomSharedRoom:
		return "Shared room"
	default:
		return "Other"
	}
}

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(cleaned []*models.CleanedListing, summary *models.RunSummary, model *models.ModelReport) *models.InsightReport {
	report := &models.InsightReport{
		CategoryCounts: make(map[string]int),
		RoomTypeCounts: make(map[string]int),
		GroupCounts:    make(map[int]int),
		Summary:        summary,
		Model:          model,
	}

	report.TotalCleaned = len(cleaned)
	for _, l := range cleaned {
		report.CategoryCounts[l.PriceCategory]++
		report.RoomTypeCounts[RoomTypeName(l.RoomTypeCode)]++
		report.GroupCounts[l.GroupCode]++
	}
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 LISTINGS CLEANING INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Summary != nil {
		fmt.Printf("  Raw records read       : \033[1m%d\033[0m\n", r.Summary.RawCount)
		fmt.Printf("  Dropped by filter      : \033[1m%d\033[0m\n", r.Summary.FilteredOut)
		fmt.Printf("  Suppressed at emission : \033[1m%d\033[0m\n", r.Summary.Suppressed)
		fmt.Printf("  Cleaned records        : \033[1m%d\033[0m\n", r.Summary.EmittedCount)
		fmt.Printf("  Group vocabulary       : \033[1m%d\033[0m values\n", r.Summary.GroupVocabSize)
		if r.Summary.HasNeighbourhood {
			fmt.Printf("  Neighbourhood vocab    : \033[1m%d\033[0m values\n", r.Summary.NeighVocabSize)
		}
	} else {
		fmt.Printf("  Cleaned records        : \033[1m%d\033[0m\n", r.TotalCleaned)
	}
	fmt.Println()

	// Outlier bounds
	if r.Summary != nil && len(r.Summary.Bounds) > 0 {
		fmt.Printf("\033[1;33m  Outlier Bounds\033[0m\n")
		fmt.Printf("  %s\n", thin)
		names := make([]string, 0, len(r.Summary.Bounds))
		for name := range r.Summary.Bounds {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b := r.Summary.Bounds[name]
			fmt.Printf("  %-20s [%.2f, %.2f]\n", name, b.Lower, b.Upper)
		}
		fmt.Println()
	}

	// Price categories
	fmt.Printf("\033[1;33m  Price Categories\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Summary != nil {
		fmt.Printf("  Policy: %s (thresholds %.2f / %.2f)\n",
			r.Summary.PricePolicy, r.Summary.LowThreshold, r.Summary.HighThreshold)
	}
	if r.TotalCleaned == 0 {
		fmt.Printf("  No cleaned records\n")
	} else {
		for _, name := range models.CategoryNames() {
			count := r.CategoryCounts[name]
			share := 100 * float64(count) / float64(r.TotalCleaned)
			fmt.Printf("  %-8s \033[1;32m%6d\033[0m  %5.1f%%  %s\n",
				name, count, share, bar(count, r.TotalCleaned))
		}
	}
	fmt.Println()

	// Room types
	fmt.Printf("\033[1;33m  Room Types\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RoomTypeCounts) == 0 {
		fmt.Printf("  No room type data\n")
	} else {
		for code := RoomEntireHome; code <= RoomOther; code++ {
			name := RoomTypeName(code)
			if count, ok := r.RoomTypeCounts[name]; ok {
				fmt.Printf("  %-18s (code %d) : \033[1m%d\033[0m\n", name, code, count)
			}
		}
	}
	fmt.Println()

	// Groups by volume
	fmt.Printf("\033[1;33m  Records per Group Code\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.GroupCounts) == 0 {
		fmt.Printf("  No group data\n")
	} else {
		type groupCount struct {
			code  int
			count int
		}
		var groups []groupCount
		for code, cnt := range r.GroupCounts {
			groups = append(groups, groupCount{code, cnt})
		}
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].count != groups[j].count {
				return groups[i].count > groups[j].count
			}
			return groups[i].code < groups[j].code
		})
		for _, g := range groups {
			fmt.Printf("  group %-3d %s (%d)\n", g.code, bar(g.count, r.TotalCleaned), g.count)
		}
	}
	fmt.Println()

	// Model evaluation
	if r.Model != nil {
		fmt.Printf("\033[1;33m  Decision Tree\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Train/test split : %d / %d records\n", r.Model.TrainSize, r.Model.TestSize)
		fmt.Printf("  Train accuracy   : \033[1;32m%.2f%%\033[0m\n", 100*r.Model.TrainAccuracy)
		fmt.Printf("  Test accuracy    : \033[1;32m%.2f%%\033[0m\n", 100*r.Model.TestAccuracy)
		if len(r.Model.Importances) > 0 {
			fmt.Printf("\n  Feature importance (most informative first)\n")
			for i, fw := range r.Model.Importances {
				fmt.Printf("  \033[1m%d.\033[0m %-26s %.4f\n", i+1, fw.Name, fw.Weight)
			}
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

// bar renders a proportional histogram bar, capped so large datasets still
// fit a terminal line.
func bar(count, total int) string {
	const width = 30
	if total == 0 || count == 0 {
		return ""
	}
	n := count * width / total
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}
