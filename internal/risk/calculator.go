package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/incident_risk_system/internal/geo"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Config - параметры расчета риска
type Config struct {
	RecentWindow      time.Duration
	WeekWindow        time.Duration
	DefaultRadiusKm   float64
	DefaultWindowDays int

	// Весовые коэффициенты давности события
	WeightLast24h  float64
	WeightLastWeek float64
	WeightOlder    float64

	// Множители серьезности по типу события; отсутствующий тип дает 1.0
	EventWeights map[models.EventType]float64

	// Нормировка компонент итогового балла
	EventsForBaseScore int
	MaxEventScore      float64
	MaxSeverityScore   float64
	MaxRecencyScore    float64
}

// DefaultConfig возвращает параметры расчета по умолчанию
func DefaultConfig() Config {
	return Config{
		RecentWindow:       24 * time.Hour,
		WeekWindow:         7 * 24 * time.Hour,
		DefaultRadiusKm:    2.0,
		DefaultWindowDays:  30,
		WeightLast24h:      3.0,
		WeightLastWeek:     2.0,
		WeightOlder:        1.0,
		EventsForBaseScore: 5,
		MaxEventScore:      4.0,
		MaxSeverityScore:   4.0,
		MaxRecencyScore:    2.0,
		EventWeights: map[models.EventType]float64{
			models.EventShooting:       1.5,
			models.EventStabbing:       1.4,
			models.EventExplosion:      1.5,
			models.EventArson:          1.3,
			models.EventBrawl:          1.0,
			models.EventPoliceActivity: 0.8,
			models.EventRoadblock:      0.5,
			models.EventAccident:       0.6,
			models.EventUnknown:        0.7,
		},
	}
}

// Calculator считает композитный балл риска 0-10 для точки по набору
// инцидентов. Состояния не имеет; время берет из внедренных часов, один
// отсчет на вызов, чтобы фильтрация и метрики не расходились.
type Calculator struct {
	cfg    Config
	clock  clockwork.Clock
	logger *logrus.Logger
}

// NewCalculator создает калькулятор риска
func NewCalculator(cfg Config, clock clockwork.Clock, logger *logrus.Logger) *Calculator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Calculator{cfg: cfg, clock: clock, logger: logger}
}

type metrics struct {
	events24h        int
	events7d         int
	severitySum      int
	weightedSeverity float64
	typeCounts       map[models.EventType]int
	mostRecent       time.Time
}

// Assess вычисляет оценку риска вокруг точки. Инциденты с испорченной меткой
// времени, координатами или серьезностью пропускаются поодиночке и не
// срывают расчет. Пустой отфильтрованный набор дает нулевую оценку.
func (c *Calculator) Assess(incidents []*models.Incident, centerLat, centerLon, radiusKm float64, windowDays int) *models.RiskAssessment {
	if radiusKm <= 0 {
		radiusKm = c.cfg.DefaultRadiusKm
	}
	if windowDays <= 0 {
		windowDays = c.cfg.DefaultWindowDays
	}

	now := c.clock.Now().UTC()
	analysisStart := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	filtered := c.filter(incidents, centerLat, centerLon, radiusKm, analysisStart)

	assessment := &models.RiskAssessment{
		Location:        fmt.Sprintf("%.4f, %.4f", centerLat, centerLon),
		Latitude:        centerLat,
		Longitude:       centerLon,
		RadiusKm:        radiusKm,
		RiskLevel:       models.RiskMinimal,
		EventTypeCounts: map[models.EventType]int{},
		AnalysisStart:   analysisStart,
		AnalysisEnd:     now,
	}
	if len(filtered) == 0 {
		return assessment
	}

	m := c.accumulate(filtered, now)
	score := c.compose(m, len(filtered))

	assessment.RiskScore = score
	assessment.RiskLevel = models.RiskLevelFromScore(score)
	assessment.TotalEvents = len(filtered)
	assessment.EventsLast24h = m.events24h
	assessment.EventsLast7d = m.events7d
	assessment.TotalSeveritySum = m.severitySum
	assessment.WeightedSeverity = m.weightedSeverity
	assessment.EventTypeCounts = m.typeCounts
	if !m.mostRecent.IsZero() {
		mostRecent := m.mostRecent
		assessment.MostRecentEvent = &mostRecent
	}
	return assessment
}

func (c *Calculator) filter(incidents []*models.Incident, centerLat, centerLon, radiusKm float64, cutoff time.Time) []*models.Incident {
	filtered := make([]*models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc == nil {
			continue
		}
		ts := inc.Timestamp.UTC()
		if ts.IsZero() || ts.Before(cutoff) {
			continue
		}
		if !inc.HasCoordinates() {
			continue
		}
		if inc.Severity < 1 || inc.Severity > 10 {
			c.logger.WithFields(logrus.Fields{
				"component":   "risk",
				"incident_id": inc.ID,
				"severity":    inc.Severity,
			}).Warn("Skipping incident with out-of-range severity")
			continue
		}
		if geo.HaversineKm(centerLat, centerLon, inc.Latitude, inc.Longitude) > radiusKm {
			continue
		}
		filtered = append(filtered, inc)
	}
	return filtered
}

func (c *Calculator) accumulate(incidents []*models.Incident, now time.Time) metrics {
	m := metrics{typeCounts: map[models.EventType]int{}}

	cutoff24h := now.Add(-c.cfg.RecentWindow)
	cutoff7d := now.Add(-c.cfg.WeekWindow)

	for _, inc := range incidents {
		ts := inc.Timestamp.UTC()
		if ts.After(m.mostRecent) {
			m.mostRecent = ts
		}

		var timeWeight float64
		switch {
		case !ts.Before(cutoff24h):
			m.events24h++
			timeWeight = c.cfg.WeightLast24h
		case !ts.Before(cutoff7d):
			m.events7d++
			timeWeight = c.cfg.WeightLastWeek
		default:
			timeWeight = c.cfg.WeightOlder
		}

		typeWeight, ok := c.cfg.EventWeights[inc.EventType]
		if !ok {
			typeWeight = 1.0
		}

		m.severitySum += inc.Severity
		m.weightedSeverity += float64(inc.Severity) * timeWeight * typeWeight
		m.typeCounts[inc.EventType]++
	}

	// Счетчик за 7 дней включает события последних суток
	m.events7d += m.events24h
	return m
}

// compose складывает три компоненты, каждая со своим потолком, и обрезает
// итог в [0,10]
func (c *Calculator) compose(m metrics, totalEvents int) float64 {
	if totalEvents == 0 {
		return 0.0
	}

	eventRatio := float64(totalEvents) / float64(c.cfg.EventsForBaseScore)
	eventScore := math.Min(c.cfg.MaxEventScore, math.Log2(1+eventRatio)*2)

	avgWeighted := m.weightedSeverity / float64(totalEvents)
	severityScore := math.Min(c.cfg.MaxSeverityScore, (avgWeighted/5)*2)

	recencyScore := 0.0
	if m.events24h > 0 {
		recencyScore = math.Min(c.cfg.MaxRecencyScore, math.Log2(1+float64(m.events24h))*1.5)
	} else if m.events7d > 0 {
		recencyScore = math.Min(c.cfg.MaxRecencyScore/2, math.Log2(1+float64(m.events7d))*0.5)
	}

	return math.Min(10.0, math.Max(0.0, eventScore+severityScore+recencyScore))
}
