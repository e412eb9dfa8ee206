package models

// ExtractedCandidate - структурированный кандидат инцидента от сервиса извлечения
type ExtractedCandidate struct {
	Summary             string  `json:"summary"`
	LocationDescription string  `json:"location_description"`
	City                string  `json:"city,omitempty"`
	Street              string  `json:"street,omitempty"`
	Neighborhood        string  `json:"neighborhood,omitempty"`
	EventType           string  `json:"event_type"`
	Severity            int     `json:"severity"`
	Confidence          float64 `json:"confidence"`
}

// ExtractionResult - размеченный результат извлечения: либо пропуск с причиной,
// либо заполненный кандидат. Ровно одно из двух.
type ExtractionResult struct {
	Skipped    bool
	SkipReason string
	Candidate  *ExtractedCandidate
}

// SkippedExtraction возвращает результат-пропуск
func SkippedExtraction(reason string) ExtractionResult {
	return ExtractionResult{Skipped: true, SkipReason: reason}
}

// ExtractedIncident возвращает результат с кандидатом
func ExtractedIncident(c *ExtractedCandidate) ExtractionResult {
	return ExtractionResult{Candidate: c}
}
