package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/incident_risk_system/internal/config"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/shenikar/incident_risk_system/internal/service"
	"github.com/shenikar/incident_risk_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIncidentService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(mockService, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeader() map[string]string {
	return map[string]string{"X-API-Key": "test-api-key"}
}

func TestIngestReport_Stored(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := IngestReportRequest{
		RawText:         "Стрельба возле рынка",
		SourceChannel:   "city_watch",
		SourceMessageID: 101,
	}

	mockService.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(&service.IngestOutcome{Stored: true, IncidentID: incidentID}, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/ingest", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IngestOutcomeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "stored", resp.Status)
	require.NotNil(t, resp.IncidentID)
	assert.Equal(t, incidentID, *resp.IncidentID)
}

func TestIngestReport_Duplicate(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	duplicateID := uuid.New()
	reqBody := IngestReportRequest{
		RawText:         "Стрельба возле рынка",
		SourceChannel:   "city_watch",
		SourceMessageID: 101,
	}

	mockService.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(&service.IngestOutcome{
			DuplicateOf:     duplicateID,
			RejectionReason: fmt.Sprintf("near-duplicate of incident %s", duplicateID),
		}, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/ingest", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IngestOutcomeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "duplicate", resp.Status)
	require.NotNil(t, resp.DuplicateOf)
	assert.Equal(t, duplicateID, *resp.DuplicateOf)
}

func TestIngestReport_Rejected(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := IngestReportRequest{
		RawText:         "Реклама",
		SourceChannel:   "city_watch",
		SourceMessageID: 102,
	}

	mockService.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(&service.IngestOutcome{RejectionReason: "skipped: not an incident"}, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/ingest", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp IngestOutcomeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Contains(t, resp.Reason, "not an incident")
}

func TestIngestReport_InvalidJSON(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Ingest(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents/ingest", bytes.NewBufferString(`{"raw_text": "test"`), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestIngestReport_ValidationError(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := IngestReportRequest{ // Отсутствует RawText
		SourceChannel:   "city_watch",
		SourceMessageID: 103,
	}

	mockService.EXPECT().Ingest(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/ingest", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestReport_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := IngestReportRequest{
		RawText:         "Стрельба",
		SourceChannel:   "city_watch",
		SourceMessageID: 104,
	}

	mockService.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("db down")).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/ingest", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAssessRisk_WithLocationText(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := AssessRiskRequest{Location: "tel aviv"}
	now := time.Now().UTC()

	assessment := &models.RiskAssessment{
		Location:      "tel aviv",
		Latitude:      32.0853,
		Longitude:     34.7818,
		RadiusKm:      2.0,
		RiskScore:     6.2,
		RiskLevel:     models.RiskModerate,
		TotalEvents:   7,
		AnalysisStart: now.Add(-30 * 24 * time.Hour),
		AnalysisEnd:   now,
		EventTypeCounts: map[models.EventType]int{
			models.EventShooting: 2,
			models.EventBrawl:    5,
		},
	}

	mockService.EXPECT().
		AssessRisk(gomock.Any(), service.AssessRequest{LocationText: "tel aviv"}).
		Return(assessment, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/risk/assess", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RiskAssessmentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "tel aviv", resp.Location)
	assert.Equal(t, "moderate", resp.RiskLevel)
	assert.Equal(t, 7, resp.TotalEvents)
	assert.Equal(t, 2, resp.EventTypeCounts["shooting"])
}

func TestAssessRisk_MissingLocationAndCoords(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().AssessRisk(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/risk/assess", bytes.NewBufferString(`{}`), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "either location or both latitude and longitude")
}

func TestAssessRisk_CoordinatesOnly(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	lat, lon := 32.0853, 34.7818
	reqBody := AssessRiskRequest{Latitude: &lat, Longitude: &lon, RadiusKm: 1.5}

	mockService.EXPECT().
		AssessRisk(gomock.Any(), gomock.Any()).
		Return(&models.RiskAssessment{
			Latitude:  lat,
			Longitude: lon,
			RadiusKm:  1.5,
			RiskLevel: models.RiskMinimal,
		}, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/risk/assess", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetIncident_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	incident := &models.Incident{
		ID:        incidentID,
		Summary:   "Стрельба возле рынка",
		EventType: models.EventShooting,
		Severity:  7,
		Latitude:  32.0853,
		Longitude: 34.7818,
	}

	mockService.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(incident, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, models.EventShooting, resp.EventType)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIncident_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()

	mockService.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("not found")).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil, authHeader())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIncidents_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidents := []*models.Incident{
		{ID: uuid.New(), Summary: "Инцидент 1"},
		{ID: uuid.New(), Summary: "Инцидент 2"},
	}

	mockService.EXPECT().
		ListIncidents(gomock.Any(), 2, 5).
		Return(incidents, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?page=2&pageSize=5", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []*IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
}

func TestGetStats_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	stats := &models.StoreStats{
		TotalIncidents:  42,
		IncidentsByCity: map[string]int{"tel aviv": 30},
		IncidentsByType: map[models.EventType]int{models.EventShooting: 5},
		AvgSeverity:     5.5,
		MaxSeverity:     9,
	}

	mockService.EXPECT().
		GetStats(gomock.Any()).
		Return(stats, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 42, resp.TotalIncidents)
	assert.Equal(t, 5, resp.IncidentsByType["shooting"])
}

func TestHealthCheck(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAPIKeyAuthMiddleware_Success(t *testing.T) {
	cfg := &config.Config{APIKeys: []string{"valid-key"}}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "valid-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_BearerToken(t *testing.T) {
	cfg := &config.Config{APIKeys: []string{"valid-key"}}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer valid-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	cfg := &config.Config{APIKeys: []string{"valid-key"}}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := makeRequest(router, "GET", "/test", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	cfg := &config.Config{APIKeys: []string{"valid-key"}}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "wrong-key"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}
