package services

import (
	"fmt"

	"airbnb-cleaner/models"
	"airbnb-cleaner/utils"
)

// requiredColumns must all be present before the cleaner touches any row.
var requiredColumns = []string{
	models.ColID,
	models.ColHostID,
	models.ColName,
	models.ColLastReview,
	models.ColReviewsPerMonth,
	models.ColNumberOfReviews,
}

// emptyColumns are always blank in Inside Airbnb exports.
var emptyColumns = []string{models.ColLicense, models.ColNeighbourhoodGroup}

// typedColumns are decoded into Listing fields; everything else passes through.
var typedColumns = map[string]struct{}{
	models.ColID:              {},
	models.ColHostID:          {},
	models.ColName:            {},
	models.ColLastReview:      {},
	models.ColReviewsPerMonth: {},
	models.ColNumberOfReviews: {},
}

// Cleaner turns a raw listings table into a cleaned Dataset.
type Cleaner struct {
	logger      *utils.Logger
	dateLayouts []string
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithDateLayouts replaces the layouts tried when parsing last_review.
func WithDateLayouts(layouts ...string) Option {
	return func(c *Cleaner) {
		if len(layouts) > 0 {
			c.dateLayouts = layouts
		}
	}
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger, opts ...Option) *Cleaner {
	c := &Cleaner{logger: logger, dateLayouts: DefaultDateLayouts}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pipeline returns the ordered cleaning stages.
func (c *Cleaner) Pipeline() *Pipeline {
	return NewPipeline().
		Add(stageFunc{"prune_columns", c.pruneColumns}).
		Add(stageFunc{"normalize_types", c.normalizeTypes}).
		Add(stageFunc{"fill_reviews_per_month", c.fillReviewsPerMonth}).
		Add(stageFunc{"extract_attributes", c.extractAttributes}).
		Add(stageFunc{"impute_rooms", c.imputeRooms}).
		Add(stageFunc{"flag_star_rating", c.flagStarRating})
}

// Clean validates t and runs every stage over a copy of it. t itself is never
// modified. On error no dataset is returned.
func (c *Cleaner) Clean(t *models.Table) (*models.Dataset, error) {
	if t == nil {
		return nil, fmt.Errorf("cleaner: nil table")
	}

	var missing []string
	for _, col := range requiredColumns {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	b := &batch{table: t.Clone()}
	if err := c.Pipeline().Run(b); err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}

	c.logger.Info("[cleaner] Cleaned %d listings (%d columns)", len(b.listings), len(b.columns))
	if len(b.warnings) > 0 {
		c.logger.Warn("[cleaner] %d values could not be parsed and were left missing", len(b.warnings))
	}

	return &models.Dataset{
		Columns:  b.columns,
		Listings: b.listings,
		Warnings: b.warnings,
	}, nil
}

func (c *Cleaner) pruneColumns(b *batch) error {
	dropped := b.table.DropColumns(emptyColumns...)
	if len(dropped) < len(emptyColumns) {
		c.logger.Debug("[cleaner] Dropped %v of %v; the rest were already absent", dropped, emptyColumns)
	}
	return nil
}

func (c *Cleaner) normalizeTypes(b *batch) error {
	t := b.table

	derived := make(map[string]struct{}, len(models.DerivedColumns))
	for _, col := range models.DerivedColumns {
		derived[col] = struct{}{}
	}

	var extras []int
	for i, h := range t.Header {
		if _, ok := derived[h]; ok {
			continue
		}
		b.columns = append(b.columns, h)
		if _, ok := typedColumns[h]; !ok {
			extras = append(extras, i)
		}
	}
	b.columns = append(b.columns, models.DerivedColumns...)

	idx := map[string]int{}
	for col := range typedColumns {
		idx[col] = t.Index(col)
	}

	b.listings = make([]*models.Listing, 0, len(t.Records))
	for row, rec := range t.Records {
		if len(rec) != len(t.Header) {
			return fmt.Errorf("row %d has %d fields, want %d", row, len(rec), len(t.Header))
		}

		l := &models.Listing{
			ID:     normalizeIdentifier(rec[idx[models.ColID]]),
			HostID: normalizeIdentifier(rec[idx[models.ColHostID]]),
			Name:   rec[idx[models.ColName]],
			Extra:  make(map[string]string, len(extras)),
		}

		raw := rec[idx[models.ColLastReview]]
		d, ok := parseDate(raw, c.dateLayouts)
		if !ok {
			b.warn(row, models.ColLastReview, raw, "unrecognised date")
		}
		l.LastReview = d

		raw = rec[idx[models.ColReviewsPerMonth]]
		rpm, ok := parseFloat(raw)
		if !ok {
			b.warn(row, models.ColReviewsPerMonth, raw, "not a number")
		}
		l.ReviewsPerMonth = rpm

		raw = rec[idx[models.ColNumberOfReviews]]
		n, ok := parseCount(raw)
		if !ok {
			b.warn(row, models.ColNumberOfReviews, raw, "not an integer")
		}
		l.NumberOfReviews = n

		for _, i := range extras {
			l.Extra[t.Header[i]] = rec[i]
		}
		b.listings = append(b.listings, l)
	}

	for _, w := range b.warnings {
		c.logger.Debug("[cleaner] Row %d: %s %q: %s", w.Row, w.Column, w.Value, w.Reason)
	}
	return nil
}

func (c *Cleaner) fillReviewsPerMonth(b *batch) error {
	n := FillMissing(b.listings, func(l *models.Listing) **float64 { return &l.ReviewsPerMonth }, 0)
	c.logger.Debug("[cleaner] Filled %d missing %s with 0", n, models.ColReviewsPerMonth)
	return nil
}

func (c *Cleaner) extractAttributes(b *batch) error {
	for _, l := range b.listings {
		a := ExtractAttributes(l.Name)
		l.NumBedrooms = a.Bedrooms
		l.NumBathrooms = a.Bathrooms
		l.NumBeds = a.Beds
		l.SharedBath = a.SharedBath
		l.NumStars = a.Stars
	}
	return nil
}

func (c *Cleaner) imputeRooms(b *batch) error {
	// Both means come from the extractor's output, before any imputation.
	baths := MeanOf(b.listings, func(l *models.Listing) *float64 { return l.NumBathrooms })
	beds := MeanOf(b.listings, func(l *models.Listing) *float64 { return l.NumBedrooms })

	if baths.Observed == 0 && len(b.listings) > 0 {
		c.logger.Warn("[cleaner] No titles mention a bathroom count; imputing 0")
	}
	if beds.Observed == 0 && len(b.listings) > 0 {
		c.logger.Warn("[cleaner] No titles mention a bedroom count; imputing 0")
	}

	hits := ApplyRules(b.listings, BathroomRules(baths.Rounded()))
	c.logger.Debug("[cleaner] Bathroom rules (mean %.3f -> %.0f): %v", baths.Mean, baths.Rounded(), hits)

	n := FillMissing(b.listings, func(l *models.Listing) **float64 { return &l.NumBedrooms }, beds.Mean)
	c.logger.Debug("[cleaner] Filled %d missing %s with mean %.3f", n, models.ColNumBedrooms, beds.Mean)
	return nil
}

func (c *Cleaner) flagStarRating(b *batch) error {
	for _, l := range b.listings {
		l.HasStarRating = l.NumberOfReviews != nil && *l.NumberOfReviews > 2
	}
	return nil
}
