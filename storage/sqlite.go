package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gharkhoj/models"
)

// SQLiteStore is the daemon's operational database: run history, logs, the
// command queue, saved queries and the local record cache. Postgres holds
// the canonical record set; this file is what the scheduler and one-shot
// invocations coordinate through.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_runs (
		id INTEGER PRIMARY KEY,
		query TEXT,
		tier TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		candidates_seen INTEGER,
		records_built INTEGER,
		fallbacks INTEGER,
		errors_count INTEGER
	);

	CREATE TABLE IF NOT EXISTS search_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		domain TEXT
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		params JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS saved_queries (
		id INTEGER PRIMARY KEY,
		query TEXT UNIQUE,
		enabled BOOLEAN DEFAULT TRUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_run_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS cached_records (
		id TEXT PRIMARY KEY,
		query TEXT,
		fingerprint TEXT,
		url TEXT,
		source_domain TEXT,
		data JSON,
		scraped_at DATETIME,
		archived BOOLEAN DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_logs_run ON search_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON search_runs(status, started_at);
	CREATE INDEX IF NOT EXISTS idx_records_query ON cached_records(query, scraped_at);
	CREATE INDEX IF NOT EXISTS idx_records_fingerprint ON cached_records(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_records_unarchived ON cached_records(archived) WHERE archived = FALSE;
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.SearchRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO search_runs (query, tier, started_at, status, candidates_seen, records_built, fallbacks, errors_count)
		VALUES (?, ?, ?, ?, 0, 0, 0, 0)`,
		run.Query, run.Tier, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.SearchRun) error {
	_, err := s.db.Exec(`
		UPDATE search_runs SET tier = ?, finished_at = ?, status = ?,
			candidates_seen = ?, records_built = ?, fallbacks = ?, errors_count = ?
		WHERE id = ?`,
		run.Tier, run.FinishedAt, run.Status,
		run.CandidatesSeen, run.RecordsBuilt, run.Fallbacks, run.ErrorsCount, run.ID)
	return err
}

func (s *SQLiteStore) GetRecentRuns(limit int) ([]models.SearchRun, error) {
	rows, err := s.db.Query(`
		SELECT id, query, tier, started_at, finished_at, status,
			candidates_seen, records_built, fallbacks, errors_count
		FROM search_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.SearchRun
	for rows.Next() {
		var run models.SearchRun
		if err := rows.Scan(&run.ID, &run.Query, &run.Tier, &run.StartedAt, &run.FinishedAt,
			&run.Status, &run.CandidatesSeen, &run.RecordsBuilt, &run.Fallbacks, &run.ErrorsCount); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, domain string) error {
	_, err := s.db.Exec(`
		INSERT INTO search_logs (run_id, timestamp, level, message, domain)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, domain)
	return err
}

func (s *SQLiteStore) EnqueueCommand(command models.CommandType, params *models.CommandParams) error {
	var paramsJSON []byte
	if params != nil {
		var err error
		paramsJSON, err = json.Marshal(params)
		if err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`INSERT INTO commands (command, params) VALUES (?, ?)`, command, paramsJSON)
	return err
}

func (s *SQLiteStore) GetPendingCommands() ([]models.Command, error) {
	rows, err := s.db.Query(`
		SELECT id, command, params, created_at, processed_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var cmd models.Command
		var params sql.NullString
		if err := rows.Scan(&cmd.ID, &cmd.Command, &params, &cmd.CreatedAt, &cmd.ProcessedAt); err != nil {
			return nil, err
		}
		if params.Valid {
			cmd.Params = json.RawMessage(params.String)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(id int64) error {
	_, err := s.db.Exec(`UPDATE commands SET processed_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (s *SQLiteStore) ParseCommandParams(cmd *models.Command) (*models.CommandParams, error) {
	if cmd.Params == nil || string(cmd.Params) == "null" {
		return &models.CommandParams{}, nil
	}
	var params models.CommandParams
	if err := json.Unmarshal(cmd.Params, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

func (s *SQLiteStore) AddSavedQuery(query string) error {
	_, err := s.db.Exec(`
		INSERT INTO saved_queries (query, enabled) VALUES (?, TRUE)
		ON CONFLICT(query) DO UPDATE SET enabled = TRUE`, query)
	return err
}

func (s *SQLiteStore) GetEnabledQueries() ([]models.SavedQuery, error) {
	rows, err := s.db.Query(`
		SELECT id, query, enabled, created_at, last_run_at
		FROM saved_queries WHERE enabled = TRUE ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queries []models.SavedQuery
	for rows.Next() {
		var q models.SavedQuery
		if err := rows.Scan(&q.ID, &q.Query, &q.Enabled, &q.CreatedAt, &q.LastRunAt); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func (s *SQLiteStore) TouchSavedQuery(id int64) error {
	_, err := s.db.Exec(`UPDATE saved_queries SET last_run_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (s *SQLiteStore) DisableSavedQuery(query string) error {
	_, err := s.db.Exec(`UPDATE saved_queries SET enabled = FALSE WHERE query = ?`, query)
	return err
}

// HasFingerprint reports whether an equivalent record has already been
// cached under any query.
func (s *SQLiteStore) HasFingerprint(fingerprint string) (bool, error) {
	var exists int
	err := s.db.QueryRow(`
		SELECT 1 FROM cached_records WHERE fingerprint = ? LIMIT 1`, fingerprint).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) CacheRecord(record *models.PropertyRecord, query, fingerprint string) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO cached_records (id, query, fingerprint, url, source_domain, data, scraped_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			scraped_at = excluded.scraped_at,
			archived = FALSE`,
		record.ID, query, fingerprint, record.URL, record.SourceDomain, data, record.ScrapedAt)
	return err
}

func (s *SQLiteStore) GetCachedRecords(query string) ([]models.PropertyRecord, error) {
	rows, err := s.db.Query(`
		SELECT data FROM cached_records WHERE query = ? ORDER BY scraped_at`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecordRows(rows)
}

// GetUnarchivedRecords returns records not yet shipped to the archive,
// oldest first.
func (s *SQLiteStore) GetUnarchivedRecords(limit int) ([]models.PropertyRecord, error) {
	rows, err := s.db.Query(`
		SELECT data FROM cached_records WHERE archived = FALSE ORDER BY scraped_at LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecordRows(rows)
}

func (s *SQLiteStore) MarkRecordArchived(id string) error {
	_, err := s.db.Exec(`UPDATE cached_records SET archived = TRUE WHERE id = ?`, id)
	return err
}

// GetRecordURLs returns distinct live record URLs for the healthcheck
// worker, skipping placeholder links.
func (s *SQLiteStore) GetRecordURLs(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT url FROM cached_records
		WHERE url != '' AND url != '#'
		GROUP BY url
		ORDER BY MAX(scraped_at) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (s *SQLiteStore) DeleteRecordByURL(url string) error {
	_, err := s.db.Exec(`DELETE FROM cached_records WHERE url = ?`, url)
	return err
}

func scanRecordRows(rows *sql.Rows) ([]models.PropertyRecord, error) {
	var records []models.PropertyRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var record models.PropertyRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("unmarshal cached record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ResetAllData clears all operational tables.
func (s *SQLiteStore) ResetAllData() error {
	tables := []string{
		"search_logs",
		"search_runs",
		"cached_records",
		"saved_queries",
		"commands",
	}

	for _, table := range tables {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return nil
}
