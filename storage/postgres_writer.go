package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"airbnb-cleaner/models"
	"airbnb-cleaner/utils"
)

const (
	listingsTable   = "listings_clean"
	insertBatchSize = 50
	insertColumns   = 13
)

// PostgresWriter persists cleaned listings to PostgreSQL.
type PostgresWriter struct {
	db      *sql.DB
	logger  *utils.Logger
	skipped int
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to accept
// connections, runs schema migrations, and returns a ready-to-use writer.
func NewPostgresWriter(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw, err := NewPostgresWriterFromDB(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return pw, nil
}

// NewPostgresWriterFromDB wraps an open handle and runs migrations.
func NewPostgresWriterFromDB(ctx context.Context, db *sql.DB, logger *utils.Logger) (*PostgresWriter, error) {
	pw := &PostgresWriter{db: db, logger: logger}
	if err := pw.migrate(ctx); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings_clean (
			id                TEXT PRIMARY KEY,
			host_id           TEXT             NOT NULL,
			name              TEXT             NOT NULL DEFAULT '',
			last_review       DATE,
			reviews_per_month DOUBLE PRECISION NOT NULL DEFAULT 0,
			number_of_reviews BIGINT,
			num_bedrooms      DOUBLE PRECISION NOT NULL,
			num_bathrooms     DOUBLE PRECISION,
			num_beds          DOUBLE PRECISION,
			shared_bath       DOUBLE PRECISION,
			num_stars         TEXT,
			has_star_rating   BOOLEAN          NOT NULL,
			extra             JSONB            NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_listings_clean_host     ON listings_clean(host_id);
		CREATE INDEX IF NOT EXISTS idx_listings_clean_bedrooms ON listings_clean(num_bedrooms);
		CREATE INDEX IF NOT EXISTS idx_listings_clean_stars    ON listings_clean(has_star_rating);
	`)
	return err
}

// Write replaces the table contents with ds inside one transaction, so a
// failed run leaves the previous load in place. Rows whose id is already
// stored are skipped; the count is logged and kept in Skipped.
func (pw *PostgresWriter) Write(ctx context.Context, ds *models.Dataset) error {
	pw.skipped = 0

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+listingsTable); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for i := 0; i < len(ds.Listings); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(ds.Listings) {
			end = len(ds.Listings)
		}
		inserted, err := insertBatch(ctx, tx, ds.Listings[i:end])
		if err != nil {
			return fmt.Errorf("postgres: insert rows %d-%d: %w", i, end-1, err)
		}
		if n := int64(end-i) - inserted; n > 0 {
			pw.skipped += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	if pw.skipped > 0 {
		pw.logger.Warn("[postgres] Skipped %d of %d listings with an id already stored",
			pw.skipped, len(ds.Listings))
	}
	return nil
}

// Skipped returns how many rows the last Write dropped as duplicate ids.
func (pw *PostgresWriter) Skipped() int {
	return pw.skipped
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []*models.Listing) (int64, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		extra, err := json.Marshal(l.Extra)
		if err != nil {
			return 0, fmt.Errorf("encode extra for %s: %w", l.ID, err)
		}
		if l.Extra == nil {
			extra = []byte("{}")
		}

		placeholders := make([]string, insertColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*insertColumns+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var lastReview interface{}
		if l.LastReview != nil {
			lastReview = *l.LastReview
		}
		valueArgs = append(valueArgs,
			l.ID, l.HostID, l.Name, lastReview,
			derefFloat(l.ReviewsPerMonth), l.NumberOfReviews,
			derefFloat(l.NumBedrooms), l.NumBathrooms, l.NumBeds, l.SharedBath,
			l.NumStars, l.HasStarRating, string(extra))
	}

	query := fmt.Sprintf(`
		INSERT INTO listings_clean (id, host_id, name, last_review, reviews_per_month,
			number_of_reviews, num_bedrooms, num_bathrooms, num_beds, shared_bath,
			num_stars, has_star_rating, extra)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	res, err := tx.ExecContext(ctx, query, valueArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Close closes the database handle.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll reads every stored listing back. Pass-through columns are restored
// from the extra document and appended to Columns in sorted order.
func (pw *PostgresWriter) FetchAll(ctx context.Context) (*models.Dataset, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT id, host_id, name, last_review, reviews_per_month, number_of_reviews,
		       num_bedrooms, num_bathrooms, num_beds, shared_bath, num_stars,
		       has_star_rating, extra
		FROM listings_clean
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	ds := &models.Dataset{}
	extraCols := map[string]struct{}{}
	for rows.Next() {
		var (
			l          = &models.Listing{}
			lastReview sql.NullTime
			rpm        float64
			reviews    sql.NullInt64
			bedrooms   float64
			bathrooms  sql.NullFloat64
			beds       sql.NullFloat64
			shared     sql.NullFloat64
			stars      sql.NullString
			extra      []byte
		)
		if err := rows.Scan(
			&l.ID, &l.HostID, &l.Name, &lastReview, &rpm, &reviews,
			&bedrooms, &bathrooms, &beds, &shared, &stars,
			&l.HasStarRating, &extra,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		if lastReview.Valid {
			t := lastReview.Time
			l.LastReview = &t
		}
		l.ReviewsPerMonth = &rpm
		if reviews.Valid {
			n := reviews.Int64
			l.NumberOfReviews = &n
		}
		l.NumBedrooms = &bedrooms
		l.NumBathrooms = nullFloat(bathrooms)
		l.NumBeds = nullFloat(beds)
		l.SharedBath = nullFloat(shared)
		if stars.Valid {
			s := stars.String
			l.NumStars = &s
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &l.Extra); err != nil {
				return nil, fmt.Errorf("postgres: decode extra for %s: %w", l.ID, err)
			}
		}
		for k := range l.Extra {
			extraCols[k] = struct{}{}
		}
		ds.Listings = append(ds.Listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}

	ds.Columns = fetchedColumns(extraCols)
	return ds, nil
}

func fetchedColumns(extra map[string]struct{}) []string {
	cols := []string{
		models.ColID, models.ColHostID, models.ColName, models.ColLastReview,
		models.ColReviewsPerMonth, models.ColNumberOfReviews,
	}
	names := make([]string, 0, len(extra))
	for k := range extra {
		names = append(names, k)
	}
	sort.Strings(names)
	cols = append(cols, names...)
	return append(cols, models.DerivedColumns...)
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
