package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/shenikar/incident_risk_system/internal/service"
)

// OutcomeToResponse преобразует исход приема в DTO для ответа
func OutcomeToResponse(outcome *service.IngestOutcome) *IngestOutcomeResponse {
	resp := &IngestOutcomeResponse{Reason: outcome.RejectionReason}
	switch {
	case outcome.Stored:
		resp.Status = "stored"
		id := outcome.IncidentID
		resp.IncidentID = &id
	case outcome.DuplicateOf != uuid.Nil:
		resp.Status = "duplicate"
		dup := outcome.DuplicateOf
		resp.DuplicateOf = &dup
	default:
		resp.Status = "rejected"
	}
	return resp
}

// AssessmentToResponse преобразует оценку риска в DTO для ответа
func AssessmentToResponse(a *models.RiskAssessment) *RiskAssessmentResponse {
	typeCounts := make(map[string]int, len(a.EventTypeCounts))
	for eventType, count := range a.EventTypeCounts {
		typeCounts[string(eventType)] = count
	}
	return &RiskAssessmentResponse{
		Location:         a.Location,
		Latitude:         a.Latitude,
		Longitude:        a.Longitude,
		RadiusKm:         a.RadiusKm,
		RiskScore:        a.RiskScore,
		RiskLevel:        string(a.RiskLevel),
		TotalEvents:      a.TotalEvents,
		EventsLast24h:    a.EventsLast24h,
		EventsLast7d:     a.EventsLast7d,
		EventTypeCounts:  typeCounts,
		MostRecentEvent:  a.MostRecentEvent,
		AnalysisStart:    a.AnalysisStart,
		AnalysisEnd:      a.AnalysisEnd,
		WeightedSeverity: a.WeightedSeverity,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:               model.ID,
		Summary:          model.Summary,
		Timestamp:        model.Timestamp,
		Severity:         model.Severity,
		EventType:        model.EventType,
		Latitude:         model.Latitude,
		Longitude:        model.Longitude,
		City:             model.City,
		Street:           model.Street,
		Neighborhood:     model.Neighborhood,
		FormattedAddress: model.FormattedAddress,
		SourceChannel:    model.SourceChannel,
		SourceMessageID:  model.SourceMessageID,
		CreatedAt:        model.CreatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// StatsToResponse преобразует статистику хранилища в DTO для ответа
func StatsToResponse(stats *models.StoreStats) *StatsResponse {
	typeCounts := make(map[string]int, len(stats.IncidentsByType))
	for eventType, count := range stats.IncidentsByType {
		typeCounts[string(eventType)] = count
	}
	return &StatsResponse{
		TotalIncidents:  stats.TotalIncidents,
		IncidentsByCity: stats.IncidentsByCity,
		IncidentsByType: typeCounts,
		AvgSeverity:     stats.AvgSeverity,
		MaxSeverity:     stats.MaxSeverity,
	}
}
