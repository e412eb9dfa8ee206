package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType - закрытый перечень типов инцидентов
type EventType string

const (
	EventShooting         EventType = "shooting"
	EventPoliceActivity   EventType = "police_activity"
	EventRoadblock        EventType = "roadblock"
	EventAccident         EventType = "accident"
	EventBrawl            EventType = "brawl"
	EventStabbing         EventType = "stabbing"
	EventArson            EventType = "arson"
	EventExplosion        EventType = "explosion"
	EventTerroristAttack  EventType = "terrorist_attack"
	EventViolentCrime     EventType = "violent_crime"
	EventSuspiciousObject EventType = "suspicious_object"
	EventUnknown          EventType = "unknown"
)

var knownEventTypes = map[EventType]struct{}{
	EventShooting:         {},
	EventPoliceActivity:   {},
	EventRoadblock:        {},
	EventAccident:         {},
	EventBrawl:            {},
	EventStabbing:         {},
	EventArson:            {},
	EventExplosion:        {},
	EventTerroristAttack:  {},
	EventViolentCrime:     {},
	EventSuspiciousObject: {},
	EventUnknown:          {},
}

// ParseEventType нормализует строку к типу события; неизвестные значения дают EventUnknown
func ParseEventType(s string) EventType {
	et := EventType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	if _, ok := knownEventTypes[et]; ok {
		return et
	}
	return EventUnknown
}

// Incident - запись об инциденте; после сохранения считается неизменяемой
type Incident struct {
	ID               uuid.UUID `json:"id"`
	Summary          string    `json:"summary"`
	RawText          string    `json:"raw_text,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	Severity         int       `json:"severity"`
	EventType        EventType `json:"event_type"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	City             string    `json:"city,omitempty"`
	Street           string    `json:"street,omitempty"`
	Neighborhood     string    `json:"neighborhood,omitempty"`
	FormattedAddress string    `json:"formatted_address,omitempty"`
	SourceChannel    string    `json:"source_channel"`
	SourceMessageID  int64     `json:"source_message_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasCoordinates сообщает, есть ли у инцидента валидные координаты.
// Нулевая пара (0,0) означает отсутствие геопривязки и не подлежит сохранению.
func (i *Incident) HasCoordinates() bool {
	return i.Latitude != 0 || i.Longitude != 0
}
