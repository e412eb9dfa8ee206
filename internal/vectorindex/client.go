package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shenikar/incident_risk_system/internal/correlator"
	"github.com/shenikar/incident_risk_system/internal/models"
)

// Client - клиент внешнего векторного индекса. Индекс хранит эмбеддинги
// сводок инцидентов и отдает ближайших соседей по текстовому запросу в
// порядке возрастания расстояния.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает клиент векторного индекса с таймаутом запросов
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Index регистрирует сохраненный инцидент в индексе под его идентификатором
func (c *Client) Index(ctx context.Context, incident *models.Incident) error {
	payload, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("vectorindex: marshal incident: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/incidents", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("vectorindex: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vectorindex: index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vectorindex: API error: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchResponse struct {
	Results []struct {
		Incident *models.Incident `json:"incident"`
		Distance float64          `json:"distance"`
	} `json:"results"`
}

// SearchSimilar возвращает до k семантически близких инцидентов с
// расстоянием подобия, упорядоченных по возрастанию расстояния
func (c *Client) SearchSimilar(ctx context.Context, query string, k int) ([]correlator.SimilarIncident, error) {
	payload, err := json.Marshal(searchRequest{Query: query, K: k})
	if err != nil {
		return nil, fmt.Errorf("vectorindex: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("vectorindex: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vectorindex: API error: status %d: %s", resp.StatusCode, body)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("vectorindex: decode response: %w", err)
	}

	similar := make([]correlator.SimilarIncident, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		similar = append(similar, correlator.SimilarIncident{Incident: r.Incident, Distance: r.Distance})
	}
	return similar, nil
}
