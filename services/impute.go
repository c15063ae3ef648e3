package services

import (
	"math"

	"airbnb-cleaner/models"
)

// ColumnMean is a dataset-wide mean taken from a snapshot of one column.
type ColumnMean struct {
	Mean     float64
	Observed int
}

// MeanOf averages the non-missing values returned by get. With no observed
// values the mean is 0.
func MeanOf(listings []*models.Listing, get func(*models.Listing) *float64) ColumnMean {
	var sum float64
	var n int
	for _, l := range listings {
		if v := get(l); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return ColumnMean{}
	}
	return ColumnMean{Mean: sum / float64(n), Observed: n}
}

// Rounded rounds the mean half-to-even, so 1.5 and 2.5 both become 2.
func (m ColumnMean) Rounded() float64 {
	return math.RoundToEven(m.Mean)
}

// ImputeRule is one predicate/action pair applied to every listing.
type ImputeRule struct {
	Name string
	When func(l *models.Listing) bool
	Then func(l *models.Listing)
}

// BathroomRules reconciles num_bathrooms and shared_bath, in order. fill is
// the rounded bathroom mean taken before any rule runs.
func BathroomRules(fill float64) []ImputeRule {
	return []ImputeRule{
		{
			Name: "both_missing",
			When: func(l *models.Listing) bool { return l.NumBathrooms == nil && l.SharedBath == nil },
			Then: func(l *models.Listing) {
				l.NumBathrooms = float64Ptr(fill)
				l.SharedBath = float64Ptr(0)
			},
		},
		{
			Name: "shared_only",
			When: func(l *models.Listing) bool { return l.NumBathrooms == nil && l.SharedBath != nil },
			Then: func(l *models.Listing) { l.NumBathrooms = float64Ptr(0) },
		},
		{
			Name: "private_only",
			When: func(l *models.Listing) bool { return l.NumBathrooms != nil && l.SharedBath == nil },
			Then: func(l *models.Listing) { l.SharedBath = float64Ptr(0) },
		},
	}
}

// ApplyRules runs each rule over every listing before moving to the next
// rule, and returns how many listings each rule changed.
func ApplyRules(listings []*models.Listing, rules []ImputeRule) map[string]int {
	hits := make(map[string]int, len(rules))
	for _, r := range rules {
		for _, l := range listings {
			if r.When(l) {
				r.Then(l)
				hits[r.Name]++
			}
		}
	}
	return hits
}

// FillMissing sets every missing value returned by get to value and returns
// the number of listings filled.
func FillMissing(listings []*models.Listing, get func(*models.Listing) **float64, value float64) int {
	n := 0
	for _, l := range listings {
		p := get(l)
		if *p == nil {
			*p = float64Ptr(value)
			n++
		}
	}
	return n
}

func float64Ptr(v float64) *float64 {
	return &v
}
