package correlator

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_risk_system/internal/geo"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/sirupsen/logrus"
)

// SimilarIncident - уже сохраненный инцидент с расстоянием подобия от
// векторного индекса: 0 означает идентичность, больше - меньшее сходство
type SimilarIncident struct {
	Incident *models.Incident
	Distance float64
}

// Config - пороги корреляции дубликатов между источниками
type Config struct {
	SimilarityThreshold float64
	TimeWindowBack      time.Duration
	TimeWindowForward   time.Duration
	DistanceThresholdKm float64
}

// DefaultConfig возвращает пороги по умолчанию
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.4,
		TimeWindowBack:      6 * time.Hour,
		TimeWindowForward:   time.Hour,
		DistanceThresholdKm: 2.0,
	}
}

// Correlator решает, описывает ли новый кандидат то же реальное событие,
// что и уже сохраненный инцидент из другого источника. Собственного
// состояния не имеет.
type Correlator struct {
	cfg    Config
	logger *logrus.Logger
}

// New создает коррелятор с заданными порогами
func New(cfg Config, logger *logrus.Logger) *Correlator {
	return &Correlator{cfg: cfg, logger: logger}
}

// FindNearDuplicate обходит кандидатов в порядке возрастания расстояния
// подобия и возвращает идентификатор первого, прошедшего все проверки:
// порог подобия, точное совпадение типа события, временное окно и
// пространственную близость. Если совпадений нет, инцидент считается новым.
func (c *Correlator) FindNearDuplicate(candidate *models.Incident, similar []SimilarIncident) (uuid.UUID, bool) {
	// Порядок обязан быть по возрастанию расстояния; сортируется локальная
	// копия, входной срез не изменяется
	ordered := make([]SimilarIncident, len(similar))
	copy(ordered, similar)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Distance < ordered[j].Distance
	})

	candidateTime := candidate.Timestamp.UTC()
	windowStart := candidateTime.Add(-c.cfg.TimeWindowBack)
	windowEnd := candidateTime.Add(c.cfg.TimeWindowForward)

	for _, s := range ordered {
		if s.Distance > c.cfg.SimilarityThreshold {
			continue
		}
		stored := s.Incident
		if stored == nil {
			continue
		}
		if stored.EventType != candidate.EventType {
			continue
		}

		storedTime := stored.Timestamp.UTC()
		if storedTime.IsZero() || storedTime.Before(windowStart) || storedTime.After(windowEnd) {
			continue
		}

		distanceOK := geo.HaversineKm(candidate.Latitude, candidate.Longitude, stored.Latitude, stored.Longitude) <= c.cfg.DistanceThresholdKm
		if !substringMatch(candidate.City, stored.City) && !distanceOK {
			continue
		}

		// Совпадение улиц требуется только когда обе стороны ее указали
		// и дистанционный порог еще не пройден
		if candidate.Street != "" && stored.Street != "" && !distanceOK && !substringMatch(candidate.Street, stored.Street) {
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"component":    "correlator",
			"candidate":    candidate.SourceMessageID,
			"duplicate_of": stored.ID,
			"similarity":   s.Distance,
		}).Info("Near-duplicate incident detected")
		return stored.ID, true
	}

	return uuid.Nil, false
}

// substringMatch - двустороннее вхождение подстрок без учета регистра
func substringMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
