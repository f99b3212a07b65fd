package log

import (
	"time"
)

// Log is one persisted HTTP request/response record.
type Log struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Method       string    `gorm:"type:varchar(10);not null" json:"method"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	RequestBody  string    `gorm:"type:text" json:"request_body"`
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	StatusCode   int       `gorm:"type:int" json:"status_code"`
	LatencyMs    int64     `gorm:"type:bigint" json:"latency_ms"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
