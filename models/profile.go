package models

// ColumnMissing is the share of missing values in one column.
type ColumnMissing struct {
	Column  string
	Missing int
	Percent float64
}

// Summary mirrors a describe() over a numeric series.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q1    float64
	Q2    float64
	Q3    float64
	Max   float64
}

// Profile holds the exploratory statistics printed after a cleaning run.
type Profile struct {
	TotalRows     int
	DuplicateRows int
	Missing       []ColumnMissing

	// Review counts split by whether a star rating was extracted from the title.
	ReviewsWithStars    Summary
	ReviewsWithoutStars Summary

	// StarsMissingWithReview counts listings that have a last_review date but
	// no star rating in their title.
	StarsMissingWithReview int
}
