package models

// StoreStats - сводная статистика хранилища инцидентов
type StoreStats struct {
	TotalIncidents  int               `json:"total_incidents"`
	IncidentsByCity map[string]int    `json:"incidents_by_city"`
	IncidentsByType map[EventType]int `json:"incidents_by_type"`
	AvgSeverity     float64           `json:"avg_severity"`
	MaxSeverity     int               `json:"max_severity"`
}
