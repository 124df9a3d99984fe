package services

import (
	"context"
	"fmt"
	"log"

	"gharkhoj/identity"
	"gharkhoj/models"
	"gharkhoj/storage"
)

// RecordService persists assembled records: fingerprint dedupe, the local
// SQLite cache, and the canonical Postgres set when one is configured.
type RecordService struct {
	sqlite *storage.SQLiteStore
	pg     *storage.PostgresStore
}

func NewRecordService(sqlite *storage.SQLiteStore, pg *storage.PostgresStore) *RecordService {
	return &RecordService{sqlite: sqlite, pg: pg}
}

// ProcessStats summarizes one outcome's persistence pass.
type ProcessStats struct {
	Persisted  int
	Duplicates int
	Errors     int
}

// ProcessOutcome writes every record in the outcome. Idempotent: a record
// already seen (same fingerprint) refreshes the canonical row instead of
// inserting a duplicate. Per-record failures are counted, not fatal.
func (s *RecordService) ProcessOutcome(ctx context.Context, outcome *models.SearchOutcome) error {
	stats := ProcessStats{}

	for i := range outcome.Records {
		record := &outcome.Records[i]
		if err := s.processRecord(ctx, record, outcome.Query, &stats); err != nil {
			log.Printf("Failed to persist record %s: %v", record.URL, err)
			stats.Errors++
		}
	}

	log.Printf("Persisted outcome for %q: %d stored, %d refreshed duplicates, %d errors",
		outcome.Query, stats.Persisted, stats.Duplicates, stats.Errors)

	if stats.Errors > 0 && stats.Persisted == 0 && stats.Duplicates == 0 {
		return fmt.Errorf("all %d records failed to persist", stats.Errors)
	}
	return nil
}

func (s *RecordService) processRecord(ctx context.Context, record *models.PropertyRecord, query string, stats *ProcessStats) error {
	fingerprint := identity.Fingerprint(record)

	seen, err := s.sqlite.HasFingerprint(fingerprint)
	if err != nil {
		return fmt.Errorf("check fingerprint: %w", err)
	}

	if err := s.sqlite.CacheRecord(record, query, fingerprint); err != nil {
		return fmt.Errorf("cache record: %w", err)
	}

	if s.pg != nil {
		if err := s.pg.UpsertRecord(ctx, record, query, fingerprint); err != nil {
			return fmt.Errorf("upsert record: %w", err)
		}
	}

	if seen {
		stats.Duplicates++
	} else {
		stats.Persisted++
	}
	return nil
}
