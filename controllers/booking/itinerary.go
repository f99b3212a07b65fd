package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tripdesk/database"
	"tripdesk/logger"
	itineraryModel "tripdesk/models/itinerary"
	itineraryService "tripdesk/services/itinerary"
	"tripdesk/services/normalizer"
	"tripdesk/types"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/genai"
)

const maxItineraryImageSize = 10 * 1024 * 1024

// ParseItinerary extracts structured flight data from a pasted e-ticket
// text blob or an uploaded image using the Gemini API. The result pre-fills
// the flights step of the wizard.
func (bc *BookingController) ParseItinerary(c *fiber.Ctx) error {
	startTime := time.Now()

	service := itineraryService.NewService(database.DB)
	requestID := service.GenerateRequestID()

	var text string
	var imageBytes []byte
	var mimeType string
	sourceKind := "text"

	if file, err := c.FormFile("image"); err == nil {
		sourceKind = "image"
		mimeType = file.Header.Get("Content-Type")
		if !isValidImageType(mimeType) {
			return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid file type. Only JPEG, JPG, PNG, and WebP files are allowed",
				Data:    map[string]interface{}{"request_id": requestID},
			})
		}
		if file.Size > maxItineraryImageSize {
			return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "File size too large. Maximum size is 10MB",
				Data:    map[string]interface{}{"request_id": requestID},
			})
		}
		src, err := file.Open()
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to open uploaded file for request %s", requestID), err)
			return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to process uploaded file",
				Data:    map[string]interface{}{"request_id": requestID},
			})
		}
		defer src.Close()
		imageBytes, err = io.ReadAll(src)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to read file content for request %s", requestID), err)
			return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to read file content",
				Data:    map[string]interface{}{"request_id": requestID},
			})
		}
	} else {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Provide an itinerary text or an image file",
				Data:    map[string]interface{}{"request_id": requestID},
			})
		}
		text = req.Text
	}

	sourceSize := int64(len(text))
	if sourceKind == "image" {
		sourceSize = int64(len(imageBytes))
	}
	if _, err := service.CreateInitialRequest(c, requestID, sourceKind, sourceSize, mimeType); err != nil {
		logger.Error(fmt.Sprintf("Failed to create initial request %s", requestID), err)
		return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to initialize request",
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	result, err := extractWithGemini(c.Context(), text, imageBytes, mimeType)
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		service.SaveFailureResultAsync(requestID, err.Error(), processingTime)
		logger.Error(fmt.Sprintf("Failed to extract itinerary for request %s", requestID), err)
		return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to parse itinerary",
			Data: map[string]interface{}{
				"error":      err.Error(),
				"request_id": requestID,
			},
		})
	}

	result.RequestID = requestID
	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	result.PNR = normalizer.CleanPNR(result.PNR)
	result.DepartureDate = normalizer.CleanDate(result.DepartureDate)
	result.ReturnDate = normalizer.CleanDate(result.ReturnDate)
	for i := range result.Legs {
		result.Legs[i].Date = normalizer.CleanDate(result.Legs[i].Date)
	}

	service.SaveSuccessResultAsync(requestID, result)
	logger.Success(fmt.Sprintf("Itinerary parsed in %dms, request ID: %s", result.ProcessingTimeMs, requestID))

	return bc.sendResponseWithLog(c, startTime, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Itinerary parsed successfully",
		Data:    result,
	})
}

func extractWithGemini(ctx context.Context, text string, imageBytes []byte, mimeType string) (*itineraryModel.ParseResult, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := `Analyze this airline itinerary / e-ticket and extract the following information. Return ONLY valid JSON.

			Extract these fields. If a field is missing or unclear, use an empty string.

			Required JSON format:
			{
			"route": string,             // Overall route, e.g. "LHR - DXB - LHR"
			"class": string,             // Cabin class
			"pnr": string,               // Booking reference / record locator
			"departure_city": string,    // First departure city
			"arrival_city": string,      // Final destination city
			"departure_date": string,    // Outbound date as yyyy-mm-dd
			"return_date": string,       // Return date as yyyy-mm-dd
			"legs": [                    // One entry per flight segment
			  {"from": string, "to": string, "date": string, "flight_no": string}
			]
			}`

	parts := []*genai.Part{{Text: prompt}}
	if len(imageBytes) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     imageBytes,
		}})
	} else {
		parts = append(parts, &genai.Part{Text: "Itinerary text:\n" + text})
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{{Parts: parts}},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}
	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	jsonText := extractJSONFromMarkdown(responseText)
	var parsed itineraryModel.ParseResult
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}
	return &parsed, nil
}

// extractJSONFromMarkdown strips markdown code fences from a model reply.
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
