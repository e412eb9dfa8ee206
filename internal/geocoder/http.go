package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPGeocodingClient - клиент внешнего API прямого геокодирования
type HTTPGeocodingClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPGeocodingClient создает клиент геокодирования с таймаутом запросов
func NewHTTPGeocodingClient(baseURL, apiKey string, timeout time.Duration) *HTTPGeocodingClient {
	return &HTTPGeocodingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Geocode выполняет прямое геокодирование текстового запроса
func (c *HTTPGeocodingClient) Geocode(ctx context.Context, query, region string) ([]Candidate, error) {
	params := url.Values{
		"address":  {query},
		"region":   {region},
		"language": {"en"},
		"key":      {c.apiKey},
	}
	return doCandidateRequest(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
}

// HTTPPlacesClient - клиент внешнего текстового поиска мест и ориентиров
type HTTPPlacesClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPPlacesClient создает клиент поиска мест с таймаутом запросов
func NewHTTPPlacesClient(baseURL, apiKey string, timeout time.Duration) *HTTPPlacesClient {
	return &HTTPPlacesClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search ищет места по текстовому запросу
func (c *HTTPPlacesClient) Search(ctx context.Context, query, region string) ([]Candidate, error) {
	params := url.Values{
		"query":  {query},
		"region": {region},
		"key":    {c.apiKey},
	}
	return doCandidateRequest(ctx, c.httpClient, c.baseURL+"?"+params.Encode())
}

func doCandidateRequest(ctx context.Context, client *http.Client, fullURL string) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geocoder: create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocoder: API error: status %d: %s", resp.StatusCode, body)
	}

	var parsed candidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("geocoder: decode response: %w", err)
	}

	candidates := make([]Candidate, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		formatted := r.FormattedAddress
		if r.Name != "" {
			formatted = fmt.Sprintf("%s, %s", r.Name, r.FormattedAddress)
		}
		candidates = append(candidates, Candidate{
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			FormattedAddress: formatted,
		})
	}
	return candidates, nil
}

// Формат ответа внешних API геокодирования и поиска мест.

type candidateResponse struct {
	Results []candidateResult `json:"results"`
	Status  string            `json:"status"`
}

type candidateResult struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
	Name             string `json:"name,omitempty"`
}
