package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"localevents/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository is the production content source and interaction
// tracker. It serves only approved events and active listings, so the search
// engine never re-checks moderation flags.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// FetchUpcomingEvents returns approved organizer events that have not ended
// yet, reduced to the unified candidate shape.
func (r *PostgresRepository) FetchUpcomingEvents(ctx context.Context) ([]model.SearchCandidate, error) {
	query := `
		SELECT
			id, title, COALESCE(description, '') AS description, category,
			start_date, end_date,
			COALESCE(cost, 0) AS cost, (COALESCE(cost, 0) = 0) AS is_free,
			age_min, age_max, COALESCE(location, '') AS location
		FROM events
		WHERE is_approved = true
		  AND COALESCE(end_date, start_date) >= NOW()
		ORDER BY start_date ASC
	`

	var events []model.SearchCandidate
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// FetchActiveListings returns active community listings. Listings without an
// availability date map to a nil start date and stay exempt from date
// filtering downstream.
func (r *PostgresRepository) FetchActiveListings(ctx context.Context) ([]model.SearchCandidate, error) {
	query := `
		SELECT
			id, title, COALESCE(description, '') AS description,
			listing_type AS category,
			available_from AS start_date, available_until AS end_date,
			COALESCE(price, 0) AS cost, (COALESCE(price, 0) = 0) AS is_free,
			age_min, age_max, COALESCE(location, '') AS location
		FROM listings
		WHERE is_active = true
		ORDER BY created_at DESC
	`

	var listings []model.SearchCandidate
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// RecordView logs a view interaction for an item. Callers treat this as
// best-effort; the row is keyed by a fresh uuid so repeated views of the same
// item are kept.
func (r *PostgresRepository) RecordView(ctx context.Context, userID, itemID string) error {
	query := `
		INSERT INTO item_views (id, user_id, item_id, viewed_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, itemID); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}
