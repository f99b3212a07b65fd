package itinerary

import (
	"time"

	"gorm.io/gorm"
)

// ParseRequest is the audit record of one itinerary extraction call.
type ParseRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"`
	SourceKind       string `json:"source_kind" gorm:"type:varchar(10);not null"` // text or image
	SourceSize       int64  `json:"source_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100);default:''"`
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Extracted fields
	Route         string `json:"route" gorm:"type:varchar(255);default:''"`
	Class         string `json:"class" gorm:"type:varchar(100);default:''"`
	PNR           string `json:"pnr" gorm:"type:varchar(20);index;default:''"`
	DepartureCity string `json:"departure_city" gorm:"type:varchar(255);default:''"`
	ArrivalCity   string `json:"arrival_city" gorm:"type:varchar(255);default:''"`
	DepartureDate string `json:"departure_date" gorm:"type:varchar(10);default:''"`
	ReturnDate    string `json:"return_date" gorm:"type:varchar(10);default:''"`

	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`

	IPAddress string `json:"ip_address" gorm:"type:varchar(45);index;default:''"`
	UserAgent string `json:"user_agent" gorm:"type:text;default:''"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

func (ParseRequest) TableName() string {
	return "itinerary_parse_requests"
}

func (pr *ParseRequest) BeforeCreate(tx *gorm.DB) error {
	if pr.Status == "" {
		pr.Status = "processing"
	}
	return nil
}

func (pr *ParseRequest) IsProcessing() bool {
	return pr.Status == "processing"
}

// MarkAsSuccess stores the extracted fields and flips the status.
func (pr *ParseRequest) MarkAsSuccess(db *gorm.DB, result *ParseResult) error {
	pr.Status = "success"
	pr.Route = result.Route
	pr.Class = result.Class
	pr.PNR = result.PNR
	pr.DepartureCity = result.DepartureCity
	pr.ArrivalCity = result.ArrivalCity
	pr.DepartureDate = result.DepartureDate
	pr.ReturnDate = result.ReturnDate
	pr.ProcessingTimeMs = result.ProcessingTimeMs
	return db.Save(pr).Error
}

func (pr *ParseRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTime int64) error {
	pr.Status = "failed"
	pr.ErrorMessage = errorMsg
	pr.ProcessingTimeMs = processingTime
	return db.Save(pr).Error
}

// ParseResult is the structured extraction returned to the caller. Leg dates
// are already reduced to yyyy-mm-dd.
type ParseResult struct {
	RequestID        string      `json:"request_id"`
	Route            string      `json:"route"`
	Class            string      `json:"class"`
	PNR              string      `json:"pnr"`
	DepartureCity    string      `json:"departure_city"`
	ArrivalCity      string      `json:"arrival_city"`
	DepartureDate    string      `json:"departure_date"`
	ReturnDate       string      `json:"return_date"`
	Legs             []LegResult `json:"legs"`
	ProcessingTimeMs int64       `json:"processing_time_ms"`
}

// LegResult is one extracted flight segment.
type LegResult struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Date     string `json:"date"`
	FlightNo string `json:"flight_no"`
}
