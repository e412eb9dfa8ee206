package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/incident_risk_system/internal/config"
	"github.com/shenikar/incident_risk_system/internal/correlator"
	"github.com/shenikar/incident_risk_system/internal/metrics"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/shenikar/incident_risk_system/internal/risk"
	"github.com/shenikar/incident_risk_system/internal/service"
	"github.com/shenikar/incident_risk_system/internal/service/mocks"
	webhook_mocks "github.com/shenikar/incident_risk_system/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

type serviceMocks struct {
	repo      *mocks.MockIncidentRepository
	extractor *mocks.MockExtractor
	resolver  *mocks.MockLocationResolver
	index     *mocks.MockSimilarityIndex
	publisher *webhook_mocks.MockAlertPublisher
}

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (service.IncidentService, *serviceMocks) {
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		repo:      mocks.NewMockIncidentRepository(ctrl),
		extractor: mocks.NewMockExtractor(ctrl),
		resolver:  mocks.NewMockLocationResolver(ctrl),
		index:     mocks.NewMockSimilarityIndex(ctrl),
		publisher: webhook_mocks.NewMockAlertPublisher(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		SimilarityThreshold:    0.4,
		DedupWindowBack:        6 * time.Hour,
		DedupWindowForward:     time.Hour,
		DedupDistanceKm:        2.0,
		SimilarCandidates:      10,
		DefaultRadiusKm:        2.0,
		AnalysisWindowDays:     30,
		AlertSeverityThreshold: 7,
	}

	clock := clockwork.NewFakeClockAt(testNow)
	corr := correlator.New(correlator.DefaultConfig(), logger)
	calculator := risk.NewCalculator(risk.DefaultConfig(), clock, logger)

	svc := service.NewIncidentService(
		m.repo,
		m.extractor,
		m.resolver,
		m.index,
		corr,
		calculator,
		m.publisher,
		clock,
		metrics.NewForTesting(),
		logger,
		cfg,
	)
	return svc, m
}

func validCandidate() models.ExtractionResult {
	return models.ExtractedIncident(&models.ExtractedCandidate{
		Summary:             "Стрельба у центрального рынка",
		LocationDescription: "возле рынка Кармель",
		City:                "tel aviv",
		EventType:           "shooting",
		Severity:            5,
		Confidence:          0.9,
	})
}

func resolvedLocation() *models.GeocodeResult {
	return &models.GeocodeResult{
		Latitude:         32.0853,
		Longitude:        34.7818,
		Method:           models.MethodGazetteer,
		Confidence:       0.7,
		FormattedAddress: "Tel Aviv",
	}
}

func ingestRequest() service.IngestRequest {
	return service.IngestRequest{
		RawText:          "Сырое сообщение из канала",
		SourceChannel:    "city_watch",
		SourceMessageID:  101,
		MessageTimestamp: testNow.Add(-10 * time.Minute),
	}
}

func TestIngest_Stored(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(validCandidate(), nil).Times(1)
	m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).Return(nil, nil).Times(1)
	m.resolver.EXPECT().Resolve(ctx, gomock.Any(), "tel aviv", req.RawText).Return(resolvedLocation(), nil).Times(1)
	m.index.EXPECT().SearchSimilar(ctx, gomock.Any(), 10).Return(nil, nil).Times(1)
	m.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			// Симулируем, что БД присвоила ID
			inc.ID = uuid.New()
			assert.Equal(t, models.EventShooting, inc.EventType)
			assert.InDelta(t, 32.0853, inc.Latitude, 1e-9)
			assert.Equal(t, req.MessageTimestamp.UTC(), inc.Timestamp)
			return nil
		}).Times(1)
	m.index.EXPECT().Index(ctx, gomock.Any()).Return(nil).Times(1)
	// Серьезность 5 ниже порога оповещений
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.True(t, outcome.Stored)
	assert.NotEqual(t, uuid.Nil, outcome.IncidentID)
	assert.Empty(t, outcome.RejectionReason)
}

func TestIngest_SkippedByExtraction(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).
		Return(models.SkippedExtraction("not an incident"), nil).Times(1)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Contains(t, outcome.RejectionReason, "not an incident")
}

func TestIngest_ExtractionFailure(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).
		Return(models.ExtractionResult{}, fmt.Errorf("connection refused")).Times(1)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки: отказ коллаборатора дает определенный исход, а не ошибку
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Contains(t, outcome.RejectionReason, "extraction failed")
}

func TestIngest_SeverityOutOfRange(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	candidate := models.ExtractedIncident(&models.ExtractedCandidate{
		Summary:   "Что-то случилось",
		City:      "haifa",
		EventType: "brawl",
		Severity:  12,
	})

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(candidate, nil).Times(1)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Contains(t, outcome.RejectionReason, "severity 12 out of range")
}

func TestIngest_MissingLocation(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	candidate := models.ExtractedIncident(&models.ExtractedCandidate{
		Summary:   "Без места",
		EventType: "accident",
		Severity:  3,
	})

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(candidate, nil).Times(1)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Contains(t, outcome.RejectionReason, "no location")
}

func TestIngest_ExactDuplicate(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()
	existingID := uuid.New()

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(validCandidate(), nil).Times(1)
	m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).
		Return(&models.Incident{ID: existingID}, nil).Times(1)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Equal(t, existingID, outcome.DuplicateOf)
}

func TestIngest_ExactDuplicateRace(t *testing.T) {
	// Подготовка: пред-проверка промахивается, но уникальный ключ бд ловит гонку
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()
	winnerID := uuid.New()

	// Ожидания: после нарушения уникальности победитель гонки перечитывается,
	// чтобы исход совпадал с пред-проверкой
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(validCandidate(), nil).Times(1)
	gomock.InOrder(
		m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).Return(nil, nil),
		m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).Return(&models.Incident{ID: winnerID}, nil),
	)
	m.resolver.EXPECT().Resolve(ctx, gomock.Any(), "tel aviv", req.RawText).Return(resolvedLocation(), nil).Times(1)
	m.index.EXPECT().SearchSimilar(ctx, gomock.Any(), 10).Return(nil, nil).Times(1)
	m.repo.EXPECT().Create(ctx, gomock.Any()).Return(service.ErrDuplicateSource).Times(1)
	m.index.EXPECT().Index(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Equal(t, winnerID, outcome.DuplicateOf)
	assert.Contains(t, outcome.RejectionReason, "exact duplicate")
}

func TestIngest_NearDuplicate(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()
	storedID := uuid.New()

	// Похожий инцидент: тот же тип, 500 метров, получасовая давность
	stored := &models.Incident{
		ID:        storedID,
		Summary:   "Стрельба на рынке Кармель",
		EventType: models.EventShooting,
		Latitude:  32.0898,
		Longitude: 34.7818,
		City:      "tel aviv",
		Timestamp: testNow.Add(-30 * time.Minute),
		Severity:  5,
	}

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(validCandidate(), nil).Times(1)
	m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).Return(nil, nil).Times(1)
	m.resolver.EXPECT().Resolve(ctx, gomock.Any(), "tel aviv", req.RawText).Return(resolvedLocation(), nil).Times(1)
	m.index.EXPECT().SearchSimilar(ctx, gomock.Any(), 10).
		Return([]correlator.SimilarIncident{{Incident: stored, Distance: 0.2}}, nil).Times(1)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.False(t, outcome.Stored)
	assert.Equal(t, storedID, outcome.DuplicateOf)
}

func TestIngest_SearchFailureDoesNotBlock(t *testing.T) {
	// Подготовка: недоступный индекс деградирует дедупликацию, но не прием
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(validCandidate(), nil).Times(1)
	m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).Return(nil, nil).Times(1)
	m.resolver.EXPECT().Resolve(ctx, gomock.Any(), "tel aviv", req.RawText).Return(resolvedLocation(), nil).Times(1)
	m.index.EXPECT().SearchSimilar(ctx, gomock.Any(), 10).Return(nil, fmt.Errorf("index unavailable")).Times(1)
	m.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			inc.ID = uuid.New()
			return nil
		}).Times(1)
	m.index.EXPECT().Index(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.True(t, outcome.Stored)
}

func TestIngest_HighSeverityPublishesAlert(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	req := ingestRequest()

	candidate := models.ExtractedIncident(&models.ExtractedCandidate{
		Summary:   "Взрыв в жилом квартале",
		City:      "tel aviv",
		EventType: "explosion",
		Severity:  9,
	})

	// Ожидания
	m.extractor.EXPECT().Extract(ctx, req.RawText, req.SourceChannel).Return(candidate, nil).Times(1)
	m.repo.EXPECT().GetBySource(ctx, req.SourceChannel, req.SourceMessageID).Return(nil, nil).Times(1)
	m.resolver.EXPECT().Resolve(ctx, gomock.Any(), "tel aviv", req.RawText).Return(resolvedLocation(), nil).Times(1)
	m.index.EXPECT().SearchSimilar(ctx, gomock.Any(), 10).Return(nil, nil).Times(1)
	m.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			inc.ID = uuid.New()
			return nil
		}).Times(1)
	m.index.EXPECT().Index(ctx, gomock.Any()).Return(nil).Times(1)
	m.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	outcome, err := svc.Ingest(ctx, req)

	// Проверки
	require.NoError(t, err)
	assert.True(t, outcome.Stored)
}

func TestAssessRisk_WithCoordinates(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	lat, lon := 32.0853, 34.7818

	incidents := []*models.Incident{
		{
			ID:        uuid.New(),
			EventType: models.EventShooting,
			Latitude:  lat,
			Longitude: lon,
			Severity:  8,
			Timestamp: testNow.Add(-2 * time.Hour),
		},
		{
			ID:        uuid.New(),
			EventType: models.EventBrawl,
			Latitude:  lat + 0.001,
			Longitude: lon,
			Severity:  4,
			Timestamp: testNow.Add(-3 * 24 * time.Hour),
		},
	}

	// Ожидания
	m.repo.EXPECT().
		FindInArea(ctx, lat, lon, 2.0, gomock.Any()).
		Return(incidents, nil).Times(1)

	// Действие
	assessment, err := svc.AssessRisk(ctx, service.AssessRequest{
		Latitude:  &lat,
		Longitude: &lon,
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, assessment.TotalEvents)
	assert.Equal(t, 1, assessment.EventsLast24h)
	assert.Equal(t, 2, assessment.EventsLast7d)
	assert.Greater(t, assessment.RiskScore, 0.0)
}

func TestAssessRisk_ResolvesLocationText(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	m.resolver.EXPECT().Resolve(ctx, "tel aviv", "", "tel aviv").Return(resolvedLocation(), nil).Times(1)
	m.repo.EXPECT().
		FindInArea(ctx, 32.0853, 34.7818, 2.0, gomock.Any()).
		Return(nil, nil).Times(1)

	// Действие
	assessment, err := svc.AssessRisk(ctx, service.AssessRequest{LocationText: "tel aviv"})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "tel aviv", assessment.Location)
	assert.Equal(t, models.RiskMinimal, assessment.RiskLevel)
	assert.Equal(t, 0, assessment.TotalEvents)
}

func TestAssessRisk_RepositoryFailureDegrades(t *testing.T) {
	// Подготовка: отказ хранилища дает нулевую оценку, а не ошибку
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	lat, lon := 32.0, 35.0

	// Ожидания
	m.repo.EXPECT().
		FindInArea(ctx, lat, lon, 2.0, gomock.Any()).
		Return(nil, fmt.Errorf("db down")).Times(1)

	// Действие
	assessment, err := svc.AssessRisk(ctx, service.AssessRequest{Latitude: &lat, Longitude: &lon})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 0.0, assessment.RiskScore)
	assert.Equal(t, models.RiskMinimal, assessment.RiskLevel)
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:      incidentID,
		Summary: "Тестовый инцидент из кеша",
	}

	// Ожидания
	m.repo.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:      incidentID,
		Summary: "Тестовый инцидент из БД",
	}

	// Ожидания
	// 1. Промах кеша
	m.repo.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	m.repo.EXPECT().
		GetByID(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	m.repo.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	dbError := fmt.Errorf("не найдено")

	// Ожидания
	m.repo.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)
	m.repo.EXPECT().GetByID(ctx, incidentID).Return(nil, dbError).Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorContains(t, err, "could not get incident")
}

func TestListIncidents_Success(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	page, pageSize := 1, 10
	expectedIncidents := []*models.Incident{
		{ID: uuid.New(), Summary: "Инцидент 1"},
		{ID: uuid.New(), Summary: "Инцидент 2"},
	}

	// Ожидания
	m.repo.EXPECT().ListIncidents(ctx, page, pageSize).Return(expectedIncidents, nil).Times(1)

	// Действие
	incidents, err := svc.ListIncidents(ctx, page, pageSize)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncidents, incidents)
}

func TestGetStats_Success(t *testing.T) {
	// Подготовка
	svc, m := newTestIncidentService(t)
	ctx := context.Background()
	expectedStats := &models.StoreStats{
		TotalIncidents:  42,
		IncidentsByCity: map[string]int{"tel aviv": 30, "haifa": 12},
		IncidentsByType: map[models.EventType]int{models.EventShooting: 5},
		AvgSeverity:     5.5,
		MaxSeverity:     9,
	}

	// Ожидания
	m.repo.EXPECT().GetStatistics(ctx).Return(expectedStats, nil).Times(1)

	// Действие
	stats, err := svc.GetStats(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedStats, stats)
}
