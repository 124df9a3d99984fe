package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SearchRun records one pass of a query through the acquisition pipeline.
type SearchRun struct {
	ID             int64      `json:"id" db:"id"`
	Query          string     `json:"query" db:"query"`
	Tier           string     `json:"tier" db:"tier"` // structured, manual, none
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	CandidatesSeen int        `json:"candidates_seen" db:"candidates_seen"`
	RecordsBuilt   int        `json:"records_built" db:"records_built"`
	Fallbacks      int        `json:"fallbacks" db:"fallbacks"` // snippet-only records
	ErrorsCount    int        `json:"errors_count" db:"errors_count"`
}

// SavedQuery is a query the daemon re-runs on schedule.
type SavedQuery struct {
	ID        int64      `json:"id" db:"id"`
	Query     string     `json:"query" db:"query"`
	Enabled   bool       `json:"enabled" db:"enabled"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastRunAt *time.Time `json:"last_run_at" db:"last_run_at"`
}
