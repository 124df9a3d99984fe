package models

import (
	"encoding/json"
	"time"
)

type CommandType string

const (
	CmdSearchNow      CommandType = "search_now"
	CmdPause          CommandType = "pause"
	CmdResume         CommandType = "resume"
	CmdRunArchive     CommandType = "run_archive"
	CmdRunHealthcheck CommandType = "run_healthcheck"
)

// Command is a row in the operational command queue, polled by the
// scheduler so a one-shot invocation (or anything else with access to the
// SQLite file) can steer the daemon.
type Command struct {
	ID          int64           `json:"id" db:"id"`
	Command     CommandType     `json:"command" db:"command"`
	Params      json.RawMessage `json:"params" db:"params"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at" db:"processed_at"`
}

type CommandParams struct {
	Query string `json:"query,omitempty"`
}
