package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shenikar/incident_risk_system/internal/config"
	"github.com/shenikar/incident_risk_system/internal/correlator"
	"github.com/shenikar/incident_risk_system/internal/metrics"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/shenikar/incident_risk_system/internal/risk"
	"github.com/shenikar/incident_risk_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// ErrDuplicateSource возвращается репозиторием при нарушении уникальности
// пары (source_channel, source_message_id)
var ErrDuplicateSource = errors.New("incident with this source pair already exists")

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	GetBySource(ctx context.Context, sourceChannel string, sourceMessageID int64) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	FindInArea(ctx context.Context, lat, lon, radiusKm float64, since time.Time) ([]*models.Incident, error)
	GetStatistics(ctx context.Context) (*models.StoreStats, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
}

// Extractor определяет контракт внешнего сервиса извлечения полей
type Extractor interface {
	Extract(ctx context.Context, rawText, sourceChannel string) (models.ExtractionResult, error)
}

// LocationResolver определяет контракт резолвера координат
type LocationResolver interface {
	Resolve(ctx context.Context, locationText, cityHint, rawText string) (*models.GeocodeResult, error)
}

// SimilarityIndex определяет контракт внешнего векторного индекса
type SimilarityIndex interface {
	Index(ctx context.Context, incident *models.Incident) error
	SearchSimilar(ctx context.Context, query string, k int) ([]correlator.SimilarIncident, error)
}

// IngestRequest - сырое сообщение с провенансом источника
type IngestRequest struct {
	RawText          string
	SourceChannel    string
	SourceMessageID  int64
	MessageTimestamp time.Time
}

// IngestOutcome - определенный исход приема: сохранено, дубликат или отказ
type IngestOutcome struct {
	Stored          bool
	IncidentID      uuid.UUID
	DuplicateOf     uuid.UUID
	RejectionReason string
}

// AssessRequest - запрос оценки риска: либо текст местоположения,
// либо готовые координаты
type AssessRequest struct {
	LocationText string
	Latitude     *float64
	Longitude    *float64
	RadiusKm     float64
	WindowDays   int
}

// IncidentService определяет контракт бизнес-логики приема и оценки риска
type IncidentService interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestOutcome, error)
	AssessRisk(ctx context.Context, req AssessRequest) (*models.RiskAssessment, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	GetStats(ctx context.Context) (*models.StoreStats, error)
}

type incidentService struct {
	repo       IncidentRepository
	extractor  Extractor
	resolver   LocationResolver
	index      SimilarityIndex
	correlator *correlator.Correlator
	calculator *risk.Calculator
	publisher  webhook.AlertPublisher
	clock      clockwork.Clock
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	cfg        *config.Config
}

// NewIncidentService собирает сервис из явных зависимостей
func NewIncidentService(
	repo IncidentRepository,
	extractor Extractor,
	resolver LocationResolver,
	index SimilarityIndex,
	corr *correlator.Correlator,
	calculator *risk.Calculator,
	publisher webhook.AlertPublisher,
	clock clockwork.Clock,
	m *metrics.Metrics,
	logger *logrus.Logger,
	cfg *config.Config,
) IncidentService {
	return &incidentService{
		repo:       repo,
		extractor:  extractor,
		resolver:   resolver,
		index:      index,
		correlator: corr,
		calculator: calculator,
		publisher:  publisher,
		clock:      clock,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
	}
}

// Ingest проводит сырое сообщение через извлечение, геокодирование,
// корреляцию дубликатов и сохранение. Всегда возвращает определенный исход;
// ошибкой завершается только отмена контекста или отказ хранилища.
func (s *incidentService) Ingest(ctx context.Context, req IngestRequest) (*IngestOutcome, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":           "incident",
		"method":            "Ingest",
		"source_channel":    req.SourceChannel,
		"source_message_id": req.SourceMessageID,
	})
	log.Info("Ingesting raw report")

	extracted, err := s.extractor.Extract(ctx, req.RawText, req.SourceChannel)
	if err != nil {
		log.WithError(err).Warn("Extraction collaborator failed")
		return s.reject(fmt.Sprintf("extraction failed: %v", err)), nil
	}
	if extracted.Skipped {
		log.WithField("reason", extracted.SkipReason).Info("Report skipped by extraction")
		return s.reject(fmt.Sprintf("skipped: %s", extracted.SkipReason)), nil
	}

	candidate := extracted.Candidate
	if reason, ok := validateCandidate(candidate); !ok {
		log.WithField("reason", reason).Warn("Extracted candidate rejected")
		return s.reject(reason), nil
	}

	// Точный дубликат: та же пара (канал, сообщение) уже сохранена
	existing, err := s.repo.GetBySource(ctx, req.SourceChannel, req.SourceMessageID)
	if err != nil {
		log.WithError(err).Error("Failed to check exact duplicate")
		return nil, fmt.Errorf("service: could not check duplicate: %w", err)
	}
	if existing != nil {
		s.metrics.IngestOutcomes.WithLabelValues("exact_duplicate").Inc()
		return &IngestOutcome{
			DuplicateOf:     existing.ID,
			RejectionReason: "exact duplicate: message already stored",
		}, nil
	}

	geocodeQuery := buildGeocodeQuery(candidate)
	resolved, err := s.resolver.Resolve(ctx, geocodeQuery, candidate.City, req.RawText)
	if err != nil {
		return nil, fmt.Errorf("service: could not resolve location: %w", err)
	}
	s.metrics.GeocodeResolutions.WithLabelValues(string(resolved.Method)).Inc()

	timestamp := req.MessageTimestamp.UTC()
	if timestamp.IsZero() {
		timestamp = s.clock.Now().UTC()
	}

	incident := &models.Incident{
		Summary:          candidate.Summary,
		RawText:          req.RawText,
		Timestamp:        timestamp,
		Severity:         candidate.Severity,
		EventType:        models.ParseEventType(candidate.EventType),
		Latitude:         resolved.Latitude,
		Longitude:        resolved.Longitude,
		City:             candidate.City,
		Street:           candidate.Street,
		Neighborhood:     candidate.Neighborhood,
		FormattedAddress: resolved.FormattedAddress,
		SourceChannel:    req.SourceChannel,
		SourceMessageID:  req.SourceMessageID,
	}
	if !incident.HasCoordinates() {
		return s.reject("no valid coordinates resolved"), nil
	}

	// Почти-дубликат: то же событие, пришедшее из другого источника
	similar, err := s.index.SearchSimilar(ctx, candidate.Summary, s.cfg.SimilarCandidates)
	if err != nil {
		// Деградация корреляции не блокирует прием
		log.WithError(err).Warn("Similarity search failed, skipping near-duplicate check")
	} else if duplicateOf, found := s.correlator.FindNearDuplicate(incident, similar); found {
		s.metrics.IngestOutcomes.WithLabelValues("near_duplicate").Inc()
		return &IngestOutcome{
			DuplicateOf:     duplicateOf,
			RejectionReason: fmt.Sprintf("near-duplicate of incident %s", duplicateOf),
		}, nil
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		if errors.Is(err, ErrDuplicateSource) {
			// Гонка двух одинаковых сообщений разрешена уникальным ключом;
			// исход совпадает с пред-проверкой и указывает на победителя гонки
			s.metrics.IngestOutcomes.WithLabelValues("exact_duplicate").Inc()
			outcome := &IngestOutcome{RejectionReason: "exact duplicate: message already stored"}
			winner, lookupErr := s.repo.GetBySource(ctx, req.SourceChannel, req.SourceMessageID)
			if lookupErr != nil {
				log.WithError(lookupErr).Warn("Failed to fetch stored duplicate after unique violation")
			} else if winner != nil {
				outcome.DuplicateOf = winner.ID
			}
			return outcome, nil
		}
		log.WithError(err).Error("Failed to store incident")
		return nil, fmt.Errorf("service: could not store incident: %w", err)
	}

	if err := s.index.Index(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to index incident for similarity search")
	}

	if incident.Severity >= s.cfg.AlertSeverityThreshold {
		s.publishAlert(ctx, incident, log)
	}

	s.metrics.IngestOutcomes.WithLabelValues("stored").Inc()
	log.WithField("incident_id", incident.ID).Info("Incident stored successfully")
	return &IngestOutcome{Stored: true, IncidentID: incident.ID}, nil
}

// AssessRisk возвращает оценку риска для точки. Запрос всегда получает
// результат: отказ хранилища деградирует до нулевой оценки.
func (s *incidentService) AssessRisk(ctx context.Context, req AssessRequest) (*models.RiskAssessment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "AssessRisk",
	})

	var lat, lon float64
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		lat, lon = *req.Latitude, *req.Longitude
	case req.LocationText != "":
		resolved, err := s.resolver.Resolve(ctx, req.LocationText, "", req.LocationText)
		if err != nil {
			return nil, fmt.Errorf("service: could not resolve query location: %w", err)
		}
		s.metrics.GeocodeResolutions.WithLabelValues(string(resolved.Method)).Inc()
		lat, lon = resolved.Latitude, resolved.Longitude
	default:
		return nil, fmt.Errorf("service: either location text or coordinates are required")
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = s.cfg.DefaultRadiusKm
	}
	windowDays := req.WindowDays
	if windowDays <= 0 {
		windowDays = s.cfg.AnalysisWindowDays
	}

	since := s.clock.Now().UTC().Add(-time.Duration(windowDays) * 24 * time.Hour)
	incidents, err := s.repo.FindInArea(ctx, lat, lon, radiusKm, since)
	if err != nil {
		log.WithError(err).Error("Failed to retrieve incidents, returning zero assessment")
		incidents = nil
	}

	assessment := s.calculator.Assess(incidents, lat, lon, radiusKm, windowDays)
	if req.LocationText != "" {
		assessment.Location = req.LocationText
	}

	s.metrics.Assessments.Inc()
	log.WithFields(logrus.Fields{
		"risk_score":   assessment.RiskScore,
		"risk_level":   assessment.RiskLevel,
		"total_events": assessment.TotalEvents,
	}).Info("Risk assessment completed")
	return assessment, nil
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Cache lookup failed")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// GetStats возвращает сводную статистику хранилища
func (s *incidentService) GetStats(ctx context.Context) (*models.StoreStats, error) {
	stats, err := s.repo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not get statistics: %w", err)
	}
	return stats, nil
}

func (s *incidentService) reject(reason string) *IngestOutcome {
	s.metrics.IngestOutcomes.WithLabelValues("rejected").Inc()
	return &IngestOutcome{RejectionReason: reason}
}

func (s *incidentService) publishAlert(ctx context.Context, incident *models.Incident, log *logrus.Entry) {
	event := webhook.AlertEvent{
		IncidentID: incident.ID,
		Summary:    incident.Summary,
		City:       incident.City,
		EventType:  incident.EventType,
		Severity:   incident.Severity,
		Latitude:   incident.Latitude,
		Longitude:  incident.Longitude,
		Timestamp:  incident.Timestamp,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish alert event")
		return
	}
	s.metrics.AlertsPublished.Inc()
}

// validateCandidate проверяет обязательные поля кандидата.
// Пустая сводка или отсутствие и города, и описания места - фатальная
// ошибка извлечения; серьезность вне [1,10] отклоняется.
func validateCandidate(c *models.ExtractedCandidate) (string, bool) {
	if c == nil || strings.TrimSpace(c.Summary) == "" {
		return "extraction returned no summary", false
	}
	if strings.TrimSpace(c.City) == "" && strings.TrimSpace(c.LocationDescription) == "" {
		return "extraction returned no location", false
	}
	if c.Severity < 1 || c.Severity > 10 {
		return fmt.Sprintf("severity %d out of range [1,10]", c.Severity), false
	}
	return "", true
}

// buildGeocodeQuery собирает точный адрес: улица + район + город,
// иначе исходное описание места
func buildGeocodeQuery(c *models.ExtractedCandidate) string {
	var parts []string
	if c.Street != "" {
		parts = append(parts, c.Street)
	}
	if c.Neighborhood != "" {
		parts = append(parts, c.Neighborhood)
	}
	if c.City != "" {
		parts = append(parts, c.City)
	}
	if len(parts) == 0 {
		return c.LocationDescription
	}
	return strings.Join(parts, ", ")
}
