package models

import (
	"strconv"
	"time"
)

// Source column names the cleaner reads or removes.
const (
	ColID                 = "id"
	ColHostID             = "host_id"
	ColName               = "name"
	ColLastReview         = "last_review"
	ColReviewsPerMonth    = "reviews_per_month"
	ColNumberOfReviews    = "number_of_reviews"
	ColLicense            = "license"
	ColNeighbourhoodGroup = "neighbourhood_group"
)

// Derived column names, in the order they are appended to the output.
const (
	ColNumBedrooms   = "num_bedrooms"
	ColNumBathrooms  = "num_bathrooms"
	ColNumBeds       = "num_beds"
	ColSharedBath    = "shared_bath"
	ColNumStars      = "num_stars"
	ColHasStarRating = "has_star_rating"
)

// DerivedColumns lists the columns the cleaner adds to every dataset.
var DerivedColumns = []string{
	ColNumBedrooms, ColNumBathrooms, ColNumBeds, ColSharedBath, ColNumStars, ColHasStarRating,
}

// DateLayout is how LastReview is rendered on output.
const DateLayout = "2006-01-02"

// Listing is one cleaned short-term-rental record. A nil pointer means the
// value is missing, which is distinct from a parsed zero.
type Listing struct {
	ID              string
	HostID          string
	Name            string
	LastReview      *time.Time
	ReviewsPerMonth *float64
	NumberOfReviews *int64

	NumBedrooms  *float64
	NumBathrooms *float64
	NumBeds      *float64
	SharedBath   *float64
	NumStars     *string

	HasStarRating bool

	// Extra holds pass-through columns keyed by header name.
	Extra map[string]string
}

// Field renders a single column of the listing as text. Missing values render
// as the empty string.
func (l *Listing) Field(col string) string {
	switch col {
	case ColID:
		return l.ID
	case ColHostID:
		return l.HostID
	case ColName:
		return l.Name
	case ColLastReview:
		if l.LastReview == nil {
			return ""
		}
		return l.LastReview.Format(DateLayout)
	case ColReviewsPerMonth:
		return formatFloat(l.ReviewsPerMonth)
	case ColNumberOfReviews:
		if l.NumberOfReviews == nil {
			return ""
		}
		return strconv.FormatInt(*l.NumberOfReviews, 10)
	case ColNumBedrooms:
		return formatFloat(l.NumBedrooms)
	case ColNumBathrooms:
		return formatFloat(l.NumBathrooms)
	case ColNumBeds:
		return formatFloat(l.NumBeds)
	case ColSharedBath:
		return formatFloat(l.SharedBath)
	case ColNumStars:
		if l.NumStars == nil {
			return ""
		}
		return *l.NumStars
	case ColHasStarRating:
		return strconv.FormatBool(l.HasStarRating)
	}
	return l.Extra[col]
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ParseWarning records a value that could not be coerced and was treated as
// missing. It never aborts a run.
type ParseWarning struct {
	Row    int
	Column string
	Value  string
	Reason string
}

// Dataset is the cleaner's output: listings plus the ordered column layout
// used when the dataset is written back out.
type Dataset struct {
	Columns  []string
	Listings []*Listing
	Warnings []ParseWarning
}

// Records renders every listing in Columns order.
func (d *Dataset) Records() [][]string {
	out := make([][]string, len(d.Listings))
	for i, l := range d.Listings {
		row := make([]string, len(d.Columns))
		for j, c := range d.Columns {
			row[j] = l.Field(c)
		}
		out[i] = row
	}
	return out
}
