package itinerary

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"tripdesk/logger"
	itineraryModel "tripdesk/models/itinerary"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Service persists itinerary extraction requests and their outcomes.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// GenerateRequestID returns a 24 character unique request id: a 6 hex char
// timestamp prefix plus 18 random hex chars.
func (s *Service) GenerateRequestID() string {
	buf := make([]byte, 12)
	rand.Read(buf)
	random := hex.EncodeToString(buf)
	timestamp := time.Now().Unix()
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, random[:18])
}

// CreateInitialRequest records the incoming extraction before the model call
// so failed calls still leave an audit row.
func (s *Service) CreateInitialRequest(c *fiber.Ctx, requestID, sourceKind string, sourceSize int64, mimeType string) (*itineraryModel.ParseRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}

	request := &itineraryModel.ParseRequest{
		RequestID:  requestID,
		SourceKind: sourceKind,
		SourceSize: sourceSize,
		MimeType:   mimeType,
		Status:     "processing",
		IPAddress:  ipAddress,
		UserAgent:  c.Get("User-Agent"),
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}
	return request, nil
}

// SaveSuccessResultAsync persists the extraction off the request path.
func (s *Service) SaveSuccessResultAsync(requestID string, result *itineraryModel.ParseResult) {
	go func() {
		var request itineraryModel.ParseRequest
		if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to find itinerary request %s", requestID), err)
			return
		}
		if err := request.MarkAsSuccess(s.DB, result); err != nil {
			logger.Error(fmt.Sprintf("Failed to save itinerary result for request %s", requestID), err)
			return
		}
		logger.Success(fmt.Sprintf("Itinerary extraction saved for request %s", requestID))
	}()
}

// SaveFailureResultAsync records a failed extraction off the request path.
func (s *Service) SaveFailureResultAsync(requestID, errorMsg string, processingTime int64) {
	go func() {
		var request itineraryModel.ParseRequest
		if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to find itinerary request %s", requestID), err)
			return
		}
		if err := request.MarkAsFailed(s.DB, errorMsg, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save itinerary failure for request %s", requestID), err)
		}
	}()
}
