package types

import "time"

// LogEntry is one request/response pair queued for database persistence.
type LogEntry struct {
	ID           uint
	Method       string
	URL          string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	LatencyMs    int64
	CreatedAt    time.Time
}
