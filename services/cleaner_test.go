package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-cleaner/models"
	"airbnb-cleaner/utils"
)

var albanyHeader = []string{
	"id", "name", "host_id", "neighbourhood_group", "neighbourhood",
	"last_review", "reviews_per_month", "number_of_reviews", "license",
}

func albanyTable() *models.Table {
	return &models.Table{
		Header: albanyHeader,
		Records: [][]string{
			{"1001", "Home in Albany · ★4.85 · 2 bedrooms · 3 beds · 1.5 baths", "501", "", "Center Square", "2023-06-01", "1.2", "45", ""},
			{"1002.0", "Rental unit in Albany · 1 bedroom · 1 bed · 1 shared bath", "502", "", "Pine Hills", "", "", "2", ""},
			{"1003", "Cozy studio downtown", "503", "", "Arbor Hill", "7/4/2022", "0.5", "3", ""},
			{"1004", "Loft · 2 bedrooms · 2 baths", "504", "", "Delaware Ave", "not-a-date", "abc", "x", ""},
		},
	}
}

func newTestCleaner() *Cleaner {
	return NewCleaner(utils.NewNopLogger())
}

func TestCleanDropsEmptyColumns(t *testing.T) {
	ds, err := newTestCleaner().Clean(albanyTable())
	require.NoError(t, err)

	assert.NotContains(t, ds.Columns, models.ColLicense)
	assert.NotContains(t, ds.Columns, models.ColNeighbourhoodGroup)
	assert.Equal(t, []string{
		"id", "name", "host_id", "neighbourhood", "last_review", "reviews_per_month", "number_of_reviews",
		"num_bedrooms", "num_bathrooms", "num_beds", "shared_bath", "num_stars", "has_star_rating",
	}, ds.Columns)
	for _, l := range ds.Listings {
		assert.NotContains(t, l.Extra, models.ColLicense)
		assert.NotContains(t, l.Extra, models.ColNeighbourhoodGroup)
	}
}

func TestCleanToleratesAbsentEmptyColumns(t *testing.T) {
	tbl := albanyTable()
	tbl.DropColumns(models.ColLicense, models.ColNeighbourhoodGroup)

	ds, err := newTestCleaner().Clean(tbl)
	require.NoError(t, err)
	assert.Len(t, ds.Listings, 4)
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	tbl := albanyTable()
	_, err := newTestCleaner().Clean(tbl)
	require.NoError(t, err)

	assert.Equal(t, albanyTable(), tbl)
}

func TestCleanMissingRequiredColumn(t *testing.T) {
	tbl := albanyTable()
	tbl.DropColumns(models.ColName, models.ColNumberOfReviews)

	ds, err := newTestCleaner().Clean(tbl)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, ErrMissingColumn)

	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{models.ColName, models.ColNumberOfReviews}, mce.Columns)
}

func TestCleanRaggedRow(t *testing.T) {
	tbl := albanyTable()
	tbl.Records[2] = tbl.Records[2][:3]

	ds, err := newTestCleaner().Clean(tbl)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.Contains(t, err.Error(), "normalize_types")
}

func TestCleanNormalizesTypes(t *testing.T) {
	ds, err := newTestCleaner().Clean(albanyTable())
	require.NoError(t, err)
	l := ds.Listings

	assert.Equal(t, "1001", l[0].ID)
	assert.Equal(t, "1002", l[1].ID)
	assert.Equal(t, "501", l[0].HostID)

	require.NotNil(t, l[0].LastReview)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), *l[0].LastReview)
	assert.Nil(t, l[1].LastReview, "empty last_review is missing")
	require.NotNil(t, l[2].LastReview)
	assert.Equal(t, time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC), *l[2].LastReview)
	assert.Nil(t, l[3].LastReview)

	assert.Equal(t, "Center Square", l[0].Extra["neighbourhood"])
}

func TestCleanCollectsParseWarnings(t *testing.T) {
	ds, err := newTestCleaner().Clean(albanyTable())
	require.NoError(t, err)

	assert.Equal(t, []models.ParseWarning{
		{Row: 3, Column: models.ColLastReview, Value: "not-a-date", Reason: "unrecognised date"},
		{Row: 3, Column: models.ColReviewsPerMonth, Value: "abc", Reason: "not a number"},
		{Row: 3, Column: models.ColNumberOfReviews, Value: "x", Reason: "not an integer"},
	}, ds.Warnings)
}

func TestCleanFillsReviewsPerMonth(t *testing.T) {
	ds, err := newTestCleaner().Clean(albanyTable())
	require.NoError(t, err)

	want := []float64{1.2, 0, 0.5, 0}
	for i, l := range ds.Listings {
		require.NotNil(t, l.ReviewsPerMonth, "row %d", i)
		assert.Equal(t, want[i], *l.ReviewsPerMonth, "row %d", i)
		assert.GreaterOrEqual(t, *l.ReviewsPerMonth, 0.0)
	}
}

func TestCleanImputesRooms(t *testing.T) {
	ds, err := newTestCleaner().Clean(albanyTable())
	require.NoError(t, err)
	l := ds.Listings

	// Observed bathrooms are 1.5 and 2, so the rounded mean is 2.
	assert.Equal(t, 1.5, *l[0].NumBathrooms)
	assert.Equal(t, 0.0, *l[0].SharedBath)
	assert.Equal(t, 0.0, *l[1].NumBathrooms)
	assert.Equal(t, 1.0, *l[1].SharedBath)
	assert.Equal(t, 2.0, *l[2].NumBathrooms)
	assert.Equal(t, 0.0, *l[2].SharedBath)
	assert.Equal(t, 2.0, *l[3].NumBathrooms)
	assert.Equal(t, 0.0, *l[3].SharedBath)

	// Observed bedrooms are 2, 1 and 2.
	for i, x := range l {
		require.NotNil(t, x.NumBedrooms, "row %d", i)
	}
	assert.InDelta(t, 5.0/3.0, *l[2].NumBedrooms, 1e-9)

	assert.Equal(t, 2.0, *l[0].NumBeds, "first \"<n> bed\" match is inside \"2 bedrooms\"")
	assert.Nil(t, l[2].NumBeds, "beds are never imputed")
	assert.Equal(t, "4.85", *l[0].NumStars)
	assert.Nil(t, l[1].NumStars, "stars are never imputed")
}

func TestCleanBathroomMeanRoundsDown(t *testing.T) {
	tbl := &models.Table{
		Header: albanyHeader,
		Records: [][]string{
			{"1", "Condo · 1 bath", "9", "", "", "", "", "1", ""},
			{"2", "Condo · 1 bath", "9", "", "", "", "", "1", ""},
			{"3", "Condo · 1.9 baths", "9", "", "", "", "", "1", ""},
			{"4", "Treehouse", "9", "", "", "", "", "1", ""},
		},
	}

	ds, err := newTestCleaner().Clean(tbl)
	require.NoError(t, err)

	// Observed bathrooms average 1.3, which rounds to 1.
	both := ds.Listings[3]
	require.NotNil(t, both.NumBathrooms)
	require.NotNil(t, both.SharedBath)
	assert.Equal(t, 1.0, *both.NumBathrooms)
	assert.Equal(t, 0.0, *both.SharedBath)
	assert.Equal(t, 1.9, *ds.Listings[2].NumBathrooms, "observed values are kept")
}

func TestCleanHasStarRating(t *testing.T) {
	tests := []struct {
		reviews string
		want    bool
	}{
		{"0", false},
		{"2", false},
		{"3", true},
		{"120", true},
		{"", false},
		{"many", false},
	}

	for _, tt := range tests {
		tbl := &models.Table{
			Header:  albanyHeader,
			Records: [][]string{{"1", "Room", "2", "", "", "", "", tt.reviews, ""}},
		}
		ds, err := newTestCleaner().Clean(tbl)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ds.Listings[0].HasStarRating, "number_of_reviews=%q", tt.reviews)
	}
}

func TestCleanNoObservedRooms(t *testing.T) {
	tbl := &models.Table{
		Header: albanyHeader,
		Records: [][]string{
			{"1", "Treehouse", "9", "", "", "", "", "1", ""},
			{"2", "Boathouse", "9", "", "", "", "", "4", ""},
		},
	}

	ds, err := newTestCleaner().Clean(tbl)
	require.NoError(t, err)
	for _, l := range ds.Listings {
		assert.Equal(t, 0.0, *l.NumBathrooms)
		assert.Equal(t, 0.0, *l.SharedBath)
		assert.Equal(t, 0.0, *l.NumBedrooms)
	}
}

func TestCleanEmptyTable(t *testing.T) {
	ds, err := newTestCleaner().Clean(&models.Table{Header: albanyHeader})
	require.NoError(t, err)
	assert.Empty(t, ds.Listings)
	assert.Len(t, ds.Columns, 13)
}

func TestCleanIsStableOnItsOwnOutput(t *testing.T) {
	c := newTestCleaner()
	first, err := c.Clean(albanyTable())
	require.NoError(t, err)

	again, err := c.Clean(&models.Table{Header: first.Columns, Records: first.Records()})
	require.NoError(t, err)

	assert.Equal(t, first.Columns, again.Columns)
	assert.Equal(t, first.Records(), again.Records())
}

func TestCleanWithDateLayouts(t *testing.T) {
	tbl := &models.Table{
		Header:  albanyHeader,
		Records: [][]string{{"1", "Room", "2", "", "", "01.02.2023", "", "1", ""}},
	}

	ds, err := NewCleaner(utils.NewNopLogger(), WithDateLayouts("02.01.2006")).Clean(tbl)
	require.NoError(t, err)
	require.NotNil(t, ds.Listings[0].LastReview)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), *ds.Listings[0].LastReview)
}

func TestPipelineOrder(t *testing.T) {
	assert.Equal(t, []string{
		"prune_columns",
		"normalize_types",
		"fill_reviews_per_month",
		"extract_attributes",
		"impute_rooms",
		"flag_star_rating",
	}, newTestCleaner().Pipeline().Names())
}
