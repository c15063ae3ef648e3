package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"airbnb-cleaner/models"
	"airbnb-cleaner/utils"
)

// ProfileService computes the exploratory summary shown after a cleaning run.
type ProfileService struct {
	logger *utils.Logger
}

func NewProfileService(logger *utils.Logger) *ProfileService {
	return &ProfileService{logger: logger}
}

// Generate profiles a cleaned dataset. raw is the table as loaded and is only
// used to count duplicate rows; it may be nil.
func (s *ProfileService) Generate(raw *models.Table, ds *models.Dataset) *models.Profile {
	p := &models.Profile{}
	if ds == nil {
		return p
	}
	p.TotalRows = len(ds.Listings)
	if raw != nil {
		p.DuplicateRows = countDuplicates(raw)
	}

	if len(ds.Listings) == 0 {
		return p
	}

	for _, col := range ds.Columns {
		missing := 0
		for _, l := range ds.Listings {
			if l.Field(col) == "" {
				missing++
			}
		}
		p.Missing = append(p.Missing, models.ColumnMissing{
			Column:  col,
			Missing: missing,
			Percent: round2(float64(missing) / float64(len(ds.Listings)) * 100),
		})
	}
	sort.SliceStable(p.Missing, func(i, j int) bool {
		return p.Missing[i].Percent > p.Missing[j].Percent
	})

	var withStars, withoutStars []float64
	for _, l := range ds.Listings {
		if l.NumStars == nil && l.LastReview != nil {
			p.StarsMissingWithReview++
		}
		if l.NumberOfReviews == nil {
			continue
		}
		if l.NumStars != nil {
			withStars = append(withStars, float64(*l.NumberOfReviews))
		} else {
			withoutStars = append(withoutStars, float64(*l.NumberOfReviews))
		}
	}
	p.ReviewsWithStars = Describe(withStars)
	p.ReviewsWithoutStars = Describe(withoutStars)

	s.logger.Debug("[profile] %d rows, %d duplicates, %d columns profiled",
		p.TotalRows, p.DuplicateRows, len(p.Missing))
	return p
}

func countDuplicates(t *models.Table) int {
	seen := make(map[string]struct{}, len(t.Records))
	dups := 0
	for _, r := range t.Records {
		key := strings.Join(r, "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// Describe summarises vals using the sample standard deviation and linearly
// interpolated quartiles. An empty input gives a zero Summary.
func Describe(vals []float64) models.Summary {
	if len(vals) == 0 {
		return models.Summary{}
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var std float64
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / float64(len(sorted)-1))
	}

	return models.Summary{
		Count: len(sorted),
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		Q1:    quantile(sorted, 0.25),
		Q2:    quantile(sorted, 0.5),
		Q3:    quantile(sorted, 0.75),
		Max:   sorted[len(sorted)-1],
	}
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Print renders the profile as a terminal report.
func (s *ProfileService) Print(w io.Writer, p *models.Profile) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  LISTINGS DATA PROFILE\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Rows           : \033[1m%d\033[0m\n", p.TotalRows)
	fmt.Fprintf(w, "  Duplicate rows : \033[1m%d\033[0m\n", p.DuplicateRows)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Missing values (%%)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(p.Missing) == 0 {
		fmt.Fprintf(w, "  No rows to profile\n")
	}
	for _, m := range p.Missing {
		fmt.Fprintf(w, "  %-32s %6.2f  (%d)\n", truncate(m.Column, 30), m.Percent, m.Missing)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  number_of_reviews by star rating\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  %-8s %7s %9s %9s %7s %7s %7s %7s %7s\n",
		"", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	printSummary(w, "stars", p.ReviewsWithStars)
	printSummary(w, "none", p.ReviewsWithoutStars)
	fmt.Fprintf(w, "  Reviewed but no star rating in title: %d\n", p.StarsMissingWithReview)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func printSummary(w io.Writer, label string, s models.Summary) {
	fmt.Fprintf(w, "  %-8s %7d %9.2f %9.2f %7.1f %7.1f %7.1f %7.1f %7.1f\n",
		label, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Q2, s.Q3, s.Max)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
