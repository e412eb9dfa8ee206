package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_risk_system/internal/models"
)

// IngestReportRequest DTO для приема сырого сообщения
// @Description DTO для приема сырого сообщения из источника
type IngestReportRequest struct {
	RawText          string     `json:"raw_text" validate:"required"`
	SourceChannel    string     `json:"source_channel" validate:"required,min=1,max=255"`
	SourceMessageID  int64      `json:"source_message_id" validate:"required"`
	MessageTimestamp *time.Time `json:"message_timestamp,omitempty"`
}

// IngestOutcomeResponse DTO для исхода приема
// @Description DTO для исхода приема: сохранено, дубликат или отказ
type IngestOutcomeResponse struct {
	Status      string     `json:"status"`
	IncidentID  *uuid.UUID `json:"incident_id,omitempty"`
	DuplicateOf *uuid.UUID `json:"duplicate_of,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// AssessRiskRequest DTO для запроса оценки риска
// @Description DTO для запроса оценки риска вокруг точки или названного места
type AssessRiskRequest struct {
	Location   string   `json:"location,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	RadiusKm   float64  `json:"radius_km,omitempty" validate:"omitempty,gt=0,lte=50"`
	WindowDays int      `json:"window_days,omitempty" validate:"omitempty,gt=0,lte=365"`
}

// RiskAssessmentResponse DTO для ответа с оценкой риска
// @Description DTO для ответа с оценкой риска
type RiskAssessmentResponse struct {
	Location         string         `json:"location"`
	Latitude         float64        `json:"latitude"`
	Longitude        float64        `json:"longitude"`
	RadiusKm         float64        `json:"radius_km"`
	RiskScore        float64        `json:"risk_score"`
	RiskLevel        string         `json:"risk_level"`
	TotalEvents      int            `json:"total_events"`
	EventsLast24h    int            `json:"events_last_24h"`
	EventsLast7d     int            `json:"events_last_7d"`
	EventTypeCounts  map[string]int `json:"event_type_counts"`
	MostRecentEvent  *time.Time     `json:"most_recent_event,omitempty"`
	AnalysisStart    time.Time      `json:"analysis_start"`
	AnalysisEnd      time.Time      `json:"analysis_end"`
	WeightedSeverity float64        `json:"weighted_severity"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID               uuid.UUID        `json:"id"`
	Summary          string           `json:"summary"`
	Timestamp        time.Time        `json:"timestamp"`
	Severity         int              `json:"severity"`
	EventType        models.EventType `json:"event_type"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	City             string           `json:"city,omitempty"`
	Street           string           `json:"street,omitempty"`
	Neighborhood     string           `json:"neighborhood,omitempty"`
	FormattedAddress string           `json:"formatted_address,omitempty"`
	SourceChannel    string           `json:"source_channel"`
	SourceMessageID  int64            `json:"source_message_id"`
	CreatedAt        time.Time        `json:"created_at"`
}

// StatsResponse DTO для ответа со статистикой хранилища
// @Description DTO для ответа со статистикой хранилища
type StatsResponse struct {
	TotalIncidents  int            `json:"total_incidents"`
	IncidentsByCity map[string]int `json:"incidents_by_city"`
	IncidentsByType map[string]int `json:"incidents_by_type"`
	AvgSeverity     float64        `json:"avg_severity"`
	MaxSeverity     int            `json:"max_severity"`
}
