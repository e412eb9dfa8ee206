package models

// GeocodeMethod - стратегия, давшая результат геокодирования
type GeocodeMethod string

const (
	MethodGeocoding        GeocodeMethod = "forward_geocoding"
	MethodPlaces           GeocodeMethod = "places_search"
	MethodGazetteer        GeocodeMethod = "gazetteer"
	MethodGazetteerPartial GeocodeMethod = "gazetteer_partial"
	MethodTextExtraction   GeocodeMethod = "text_extraction_fallback"
	MethodDefaultFallback  GeocodeMethod = "default_fallback"
)

// Уверенность убывает строго вдоль цепочки стратегий, поэтому вызывающий
// код всегда может предпочесть результат более ранней стратегии.
const (
	ConfidenceGeocoding        = 0.9
	ConfidencePlaces           = 0.85
	ConfidenceGazetteer        = 0.7
	ConfidenceGazetteerPartial = 0.6
	ConfidenceTextExtraction   = 0.4
	ConfidenceDefaultFallback  = 0.1
)

// GeocodeResult - результат резолвера координат
type GeocodeResult struct {
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Method           GeocodeMethod `json:"method"`
	Confidence       float64       `json:"confidence"`
	// LocationUnknown выставляется только терминальным фолбэком: координаты
	// пригодны (центр региона), но само место определить не удалось.
	LocationUnknown bool `json:"location_unknown,omitempty"`
}
