package geocoder

import (
	"context"
	"fmt"
	"strings"

	"github.com/shenikar/incident_risk_system/internal/gazetteer"
	"github.com/shenikar/incident_risk_system/internal/models"
)

const regionCode = "il"

// strategy - одна ступень цепочки геокодирования. Возвращает результат и
// признак успеха; любая внутренняя ошибка трактуется как провал ступени.
type strategy interface {
	name() string
	resolve(ctx context.Context, locationText, cityHint, rawText string) (*models.GeocodeResult, bool)
}

// forwardStrategy - прямое геокодирование полного описания с подсказкой города
type forwardStrategy struct {
	client ForwardClient
	bounds BoundingBox
}

func (s *forwardStrategy) name() string { return "forward_geocoding" }

func (s *forwardStrategy) resolve(ctx context.Context, locationText, cityHint, _ string) (*models.GeocodeResult, bool) {
	query := buildForwardQuery(locationText, cityHint)
	return tryCandidates(ctx, s.client, query, s.bounds, models.MethodGeocoding, models.ConfidenceGeocoding)
}

// cityOnlyStrategy - повторная попытка только по подсказке города
type cityOnlyStrategy struct {
	client ForwardClient
	bounds BoundingBox
}

func (s *cityOnlyStrategy) name() string { return "city_only_geocoding" }

func (s *cityOnlyStrategy) resolve(ctx context.Context, _, cityHint, _ string) (*models.GeocodeResult, bool) {
	if cityHint == "" {
		return nil, false
	}
	query := buildForwardQuery(cityHint, "")
	return tryCandidates(ctx, s.client, query, s.bounds, models.MethodGeocoding, models.ConfidenceGeocoding)
}

// placesStrategy - поиск ориентира через внешний сервис мест
type placesStrategy struct {
	client PlacesClient
	bounds BoundingBox
}

func (s *placesStrategy) name() string { return "places_search" }

func (s *placesStrategy) resolve(ctx context.Context, locationText, cityHint, _ string) (*models.GeocodeResult, bool) {
	query := locationText
	if cityHint != "" {
		query = fmt.Sprintf("%s in %s", locationText, cityHint)
	}
	candidates, err := s.client.Search(ctx, query, regionCode)
	if err != nil {
		return nil, false
	}
	return firstInBounds(candidates, s.bounds, models.MethodPlaces, models.ConfidencePlaces)
}

// gazetteerStrategy - поиск по статическому справочнику: сначала полный адрес,
// затем город, затем описание места
type gazetteerStrategy struct {
	gaz *gazetteer.Gazetteer
}

func (s *gazetteerStrategy) name() string { return "gazetteer" }

func (s *gazetteerStrategy) resolve(_ context.Context, locationText, cityHint, _ string) (*models.GeocodeResult, bool) {
	var keys []string
	if locationText != "" && cityHint != "" {
		keys = append(keys, locationText+" "+cityHint)
	}
	if cityHint != "" {
		keys = append(keys, cityHint)
	}
	if locationText != "" {
		keys = append(keys, locationText)
	}

	for _, key := range keys {
		entry, kind := s.gaz.Lookup(key)
		switch kind {
		case gazetteer.MatchExact:
			return &models.GeocodeResult{
				Latitude:         entry.Latitude,
				Longitude:        entry.Longitude,
				FormattedAddress: entry.Name,
				Method:           models.MethodGazetteer,
				Confidence:       models.ConfidenceGazetteer,
			}, true
		case gazetteer.MatchPartial:
			return &models.GeocodeResult{
				Latitude:         entry.Latitude,
				Longitude:        entry.Longitude,
				FormattedAddress: entry.Name,
				Method:           models.MethodGazetteerPartial,
				Confidence:       models.ConfidenceGazetteerPartial,
			}, true
		}
	}
	return nil, false
}

// extractionStrategy - поиск любого ключа справочника как подстроки полного
// текста сообщения; срабатывает, когда поля места не дали совпадения
type extractionStrategy struct {
	gaz *gazetteer.Gazetteer
}

func (s *extractionStrategy) name() string { return "text_extraction" }

func (s *extractionStrategy) resolve(_ context.Context, _, _, rawText string) (*models.GeocodeResult, bool) {
	entry, ok := s.gaz.ExtractAny(rawText)
	if !ok {
		return nil, false
	}
	return &models.GeocodeResult{
		Latitude:         entry.Latitude,
		Longitude:        entry.Longitude,
		FormattedAddress: fmt.Sprintf("%s (approximate)", entry.Name),
		Method:           models.MethodTextExtraction,
		Confidence:       models.ConfidenceTextExtraction,
	}, true
}

// defaultStrategy - терминальный фолбэк: центр региона с явным признаком
// неизвестного местоположения. Единственная ступень, которая не может провалиться.
type defaultStrategy struct{}

func (s *defaultStrategy) name() string { return "default_fallback" }

func (s *defaultStrategy) resolve(_ context.Context, _, _, _ string) (*models.GeocodeResult, bool) {
	return &models.GeocodeResult{
		Latitude:         ServiceCenterLat,
		Longitude:        ServiceCenterLon,
		FormattedAddress: "Israel (location unknown)",
		Method:           models.MethodDefaultFallback,
		Confidence:       models.ConfidenceDefaultFallback,
		LocationUnknown:  true,
	}, true
}

func buildForwardQuery(locationText, cityHint string) string {
	query := locationText
	if cityHint != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(cityHint)) {
		query = fmt.Sprintf("%s, %s", query, cityHint)
	}
	if !strings.Contains(strings.ToLower(query), "israel") && !strings.Contains(query, "ישראל") {
		query = fmt.Sprintf("%s, Israel", query)
	}
	return query
}

func tryCandidates(ctx context.Context, client ForwardClient, query string, bounds BoundingBox, method models.GeocodeMethod, confidence float64) (*models.GeocodeResult, bool) {
	candidates, err := client.Geocode(ctx, query, regionCode)
	if err != nil {
		return nil, false
	}
	return firstInBounds(candidates, bounds, method, confidence)
}

func firstInBounds(candidates []Candidate, bounds BoundingBox, method models.GeocodeMethod, confidence float64) (*models.GeocodeResult, bool) {
	for _, c := range candidates {
		if !bounds.Contains(c.Latitude, c.Longitude) {
			continue
		}
		return &models.GeocodeResult{
			Latitude:         c.Latitude,
			Longitude:        c.Longitude,
			FormattedAddress: c.FormattedAddress,
			Method:           method,
			Confidence:       confidence,
		}, true
	}
	return nil, false
}
