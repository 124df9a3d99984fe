package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gharkhoj/models"
)

// PostgresStore holds the canonical record set shared with downstream
// consumers. Optional: the pipeline runs fine on SQLite alone when no
// DATABASE_URL is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS property_records (
		id UUID PRIMARY KEY,
		fingerprint TEXT UNIQUE NOT NULL,
		query TEXT,
		title TEXT,
		source_domain TEXT,
		url TEXT,
		price TEXT,
		bedrooms INT,
		bathrooms INT,
		area_sqft INT,
		possession_status TEXT,
		floor TEXT,
		transaction_type TEXT,
		furnishing TEXT,
		balcony_count INT,
		property_type TEXT,
		location TEXT,
		amenities TEXT[],
		landmarks TEXT[],
		description TEXT,
		image_url TEXT,
		scraped_at TIMESTAMPTZ,
		times_seen INT DEFAULT 1,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_property_records_query ON property_records(query);
	CREATE INDEX IF NOT EXISTS idx_property_records_location ON property_records(location);
	CREATE INDEX IF NOT EXISTS idx_property_records_domain ON property_records(source_domain);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// UpsertRecord inserts a record or refreshes the existing row sharing its
// fingerprint. Re-seeing a property keeps the original id and bumps
// times_seen; fresher field values win, absent ones don't clobber.
func (s *PostgresStore) UpsertRecord(ctx context.Context, record *models.PropertyRecord, query, fingerprint string) error {
	sql := `
		INSERT INTO property_records (
			id, fingerprint, query, title, source_domain, url, price,
			bedrooms, bathrooms, area_sqft, possession_status, floor,
			transaction_type, furnishing, balcony_count, property_type,
			location, amenities, landmarks, description, image_url, scraped_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		ON CONFLICT (fingerprint) DO UPDATE SET
			query = EXCLUDED.query,
			title = COALESCE(NULLIF(EXCLUDED.title, ''), property_records.title),
			url = COALESCE(NULLIF(EXCLUDED.url, '#'), property_records.url),
			price = EXCLUDED.price,
			bedrooms = COALESCE(EXCLUDED.bedrooms, property_records.bedrooms),
			bathrooms = COALESCE(EXCLUDED.bathrooms, property_records.bathrooms),
			area_sqft = COALESCE(EXCLUDED.area_sqft, property_records.area_sqft),
			possession_status = COALESCE(EXCLUDED.possession_status, property_records.possession_status),
			floor = COALESCE(EXCLUDED.floor, property_records.floor),
			transaction_type = COALESCE(EXCLUDED.transaction_type, property_records.transaction_type),
			furnishing = COALESCE(EXCLUDED.furnishing, property_records.furnishing),
			balcony_count = COALESCE(EXCLUDED.balcony_count, property_records.balcony_count),
			property_type = COALESCE(NULLIF(EXCLUDED.property_type, ''), property_records.property_type),
			location = COALESCE(NULLIF(EXCLUDED.location, ''), property_records.location),
			amenities = COALESCE(EXCLUDED.amenities, property_records.amenities),
			landmarks = COALESCE(EXCLUDED.landmarks, property_records.landmarks),
			description = COALESCE(NULLIF(EXCLUDED.description, ''), property_records.description),
			scraped_at = EXCLUDED.scraped_at,
			times_seen = property_records.times_seen + 1,
			updated_at = NOW()`

	_, err := s.pool.Exec(ctx, sql,
		record.ID, fingerprint, query, record.Title, record.SourceDomain, record.URL, record.Price,
		record.Bedrooms, record.Bathrooms, record.AreaSqFt, record.Status, record.Floor,
		record.Transaction, record.Furnishing, record.BalconyCount, record.PropertyType,
		record.Location, record.Amenities, record.Landmarks, record.Description, record.ImageURL, record.ScrapedAt,
	)
	return err
}

func (s *PostgresStore) HasFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var exists int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM property_records WHERE fingerprint = $1`, fingerprint).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (s *PostgresStore) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM property_records`).Scan(&count)
	return count, err
}

func (s *PostgresStore) DeleteRecordByURL(ctx context.Context, url string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM property_records WHERE url = $1`, url)
	return err
}
