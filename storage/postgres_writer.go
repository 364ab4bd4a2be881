package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"airbnb-classifier/models"
	"airbnb-classifier/utils"
)

// PostgresWriter persists cleaned listings to PostgreSQL. Every Write call
// stores its batch under a fresh run ID, so earlier runs stay queryable.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS cleaned_listings (
			id                 SERIAL PRIMARY KEY,
			run_id             UUID         NOT NULL,
			group_code         INTEGER      NOT NULL,
			neighbourhood_code INTEGER      NOT NULL DEFAULT 0,
			room_type_code     INTEGER      NOT NULL,
			price_category     VARCHAR(10)  NOT NULL,
			minimum_nights     BIGINT       NOT NULL,
			number_of_reviews  BIGINT       NOT NULL,
			created_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_cleaned_listings_run      ON cleaned_listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_cleaned_listings_category ON cleaned_listings(price_category);
		CREATE INDEX IF NOT EXISTS idx_cleaned_listings_group    ON cleaned_listings(group_code);
	`)
	return err
}

// Clear deletes every stored row belonging to the given run.
func (pw *PostgresWriter) Clear(runID string) error {
	_, err := pw.db.Exec("DELETE FROM cleaned_listings WHERE run_id = $1", runID)
	if err != nil {
		return fmt.Errorf("postgres: clear run %s: %w", runID, err)
	}
	return nil
}

// Write batch-inserts all cleaned listings under a fresh run ID and
// returns that ID. A failed insert deletes the run's partial batches
// before returning, so no half-written run is left queryable.
func (pw *PostgresWriter) Write(listings []*models.CleanedListing) (string, error) {
	runID := uuid.New().String()
	if len(listings) == 0 {
		return runID, nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(runID, listings[i:end]); err != nil {
			if clearErr := pw.Clear(runID); clearErr != nil {
				return "", fmt.Errorf("postgres: insert run %s: %w (cleanup: %v)", runID, err, clearErr)
			}
			return "", fmt.Errorf("postgres: insert run %s: %w", runID, err)
		}
	}
	return runID, nil
}

func (pw *PostgresWriter) insertBatch(runID string, batch []*models.CleanedListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*7)

	for idx, l := range batch {
		base := idx * 7
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		valueArgs = append(valueArgs,
			runID, l.GroupCode, l.NeighbourhoodCode, l.RoomTypeCode,
			l.PriceCategory, l.MinimumNights, l.NumberOfReviews)
	}

	query := fmt.Sprintf(`
		INSERT INTO cleaned_listings (run_id, group_code, neighbourhood_code, room_type_code, price_category, minimum_nights, number_of_reviews)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchRun retrieves the stored listings for one run, in insertion order.
func (pw *PostgresWriter) FetchRun(runID string) ([]*models.CleanedListing, error) {
	rows, err := pw.db.Query(`
		SELECT group_code, neighbourhood_code, room_type_code, price_category, minimum_nights, number_of_reviews
		FROM cleaned_listings
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch run %s: %w", runID, err)
	}
	defer rows.Close()

	var listings []*models.CleanedListing
	for rows.Next() {
		l := &models.CleanedListing{}
		if err := rows.Scan(
			&l.GroupCode, &l.NeighbourhoodCode, &l.RoomTypeCode,
			&l.PriceCategory, &l.MinimumNights, &l.NumberOfReviews,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
