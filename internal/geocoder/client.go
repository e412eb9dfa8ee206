package geocoder

import "context"

// Candidate - точка-кандидат, возвращенная внешним коллаборатором.
// Резолвер сам фильтрует кандидатов по границам региона и не доверяет
// коллаборатору соблюдение региональных ограничений.
type Candidate struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// ForwardClient - контракт внешнего сервиса прямого геокодирования
type ForwardClient interface {
	Geocode(ctx context.Context, query, region string) ([]Candidate, error)
}

// PlacesClient - контракт внешнего поиска ориентиров и мест
type PlacesClient interface {
	Search(ctx context.Context, query, region string) ([]Candidate, error)
}

// BoundingBox - прямоугольник допустимых координат
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains проверяет попадание точки в границы
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// ServiceBounds - географические границы обслуживаемого региона
var ServiceBounds = BoundingBox{MinLat: 29.0, MaxLat: 34.0, MinLon: 34.0, MaxLon: 36.0}

// Центр региона - терминальный фолбэк при полном провале геокодирования
const (
	ServiceCenterLat = 32.0
	ServiceCenterLon = 35.0
)
