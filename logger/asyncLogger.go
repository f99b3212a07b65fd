package logger

import (
	"fmt"

	logModel "tripdesk/models/log"
	"tripdesk/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request logs through a buffered channel so handlers
// never wait on the database.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

// ProcessLog drains the channel into the logs table. Run it in its own
// goroutine.
func (l *AsyncLogger) ProcessLog() {
	Info("Starting asynchronous request logger")

	for entry := range l.channel {
		dbLog := logModel.Log{
			Method:       entry.Method,
			URL:          entry.URL,
			RequestBody:  entry.RequestBody,
			ResponseBody: entry.ResponseBody,
			StatusCode:   entry.StatusCode,
			LatencyMs:    entry.LatencyMs,
			CreatedAt:    entry.CreatedAt,
		}
		if err := l.db.Create(&dbLog).Error; err != nil {
			Error(fmt.Sprintf("Failed to insert log entry for %s %s", entry.Method, entry.URL), err)
		}
	}
}

// Log pushes an entry into the channel; a full buffer drops the entry rather
// than blocking the handler.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning(fmt.Sprintf("Request log buffer full, dropping entry for %s %s", entry.Method, entry.URL))
	}
}
