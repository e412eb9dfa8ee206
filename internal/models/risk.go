package models

import "time"

// RiskLevel - дискретный уровень риска, производный от балла
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
	RiskMinimal  RiskLevel = "minimal"
)

// RiskLevelFromScore отображает балл 0-10 на уровень по фиксированным порогам
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score >= 9:
		return RiskCritical
	case score >= 7:
		return RiskHigh
	case score >= 5:
		return RiskModerate
	case score >= 3:
		return RiskLow
	default:
		return RiskMinimal
	}
}

// RiskAssessment - результат оценки риска для точки.
// Вычисляется на каждый запрос и никогда не сохраняется.
type RiskAssessment struct {
	Location  string    `json:"location"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	RadiusKm  float64   `json:"radius_km"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`

	TotalEvents      int `json:"total_events"`
	EventsLast24h    int `json:"events_last_24h"`
	EventsLast7d     int `json:"events_last_7d"`
	TotalSeveritySum int `json:"total_severity_sum"`

	WeightedSeverity float64           `json:"weighted_severity"`
	EventTypeCounts  map[EventType]int `json:"event_type_counts"`
	MostRecentEvent  *time.Time        `json:"most_recent_event,omitempty"`

	AnalysisStart time.Time `json:"analysis_start"`
	AnalysisEnd   time.Time `json:"analysis_end"`
}
