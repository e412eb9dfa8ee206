package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shenikar/incident_risk_system/internal/models"
)

// Client - клиент внешнего сервиса извлечения структурированных полей из
// сырого текста сообщения. Само извлечение вне зоны ответственности ядра.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент извлечения с таймаутом запросов
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type extractRequest struct {
	RawText       string `json:"raw_text"`
	SourceChannel string `json:"source_channel"`
}

type extractResponse struct {
	Skip   bool   `json:"skip"`
	Reason string `json:"reason,omitempty"`

	Summary             string  `json:"summary,omitempty"`
	LocationDescription string  `json:"location_description,omitempty"`
	City                string  `json:"city,omitempty"`
	Street              string  `json:"street,omitempty"`
	Neighborhood        string  `json:"neighborhood,omitempty"`
	EventType           string  `json:"event_type,omitempty"`
	Severity            *int    `json:"severity,omitempty"`
	Confidence          float64 `json:"confidence,omitempty"`
}

// Extract отправляет сырой текст на извлечение и возвращает размеченный
// результат: пропуск с причиной либо заполненный кандидат инцидента
func (c *Client) Extract(ctx context.Context, rawText, sourceChannel string) (models.ExtractionResult, error) {
	payload, err := json.Marshal(extractRequest{RawText: rawText, SourceChannel: sourceChannel})
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("extraction: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("extraction: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("extraction: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.ExtractionResult{}, fmt.Errorf("extraction: API error: status %d: %s", resp.StatusCode, body)
	}

	var parsed extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.ExtractionResult{}, fmt.Errorf("extraction: decode response: %w", err)
	}

	if parsed.Skip {
		return models.SkippedExtraction(parsed.Reason), nil
	}

	// Отсутствующая серьезность трактуется как средняя
	severity := 5
	if parsed.Severity != nil {
		severity = *parsed.Severity
	}

	return models.ExtractedIncident(&models.ExtractedCandidate{
		Summary:             parsed.Summary,
		LocationDescription: parsed.LocationDescription,
		City:                parsed.City,
		Street:              parsed.Street,
		Neighborhood:        parsed.Neighborhood,
		EventType:           parsed.EventType,
		Severity:            severity,
		Confidence:          parsed.Confidence,
	}), nil
}
