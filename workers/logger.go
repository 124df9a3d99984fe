package workers

import "gharkhoj/models"

// LogFunc writes to the search_logs table.
type LogFunc func(level models.LogLevel, source, message string)

// NoOpLogger does nothing (default)
var NoOpLogger LogFunc = func(level models.LogLevel, source, message string) {}
