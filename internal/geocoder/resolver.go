package geocoder

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/incident_risk_system/internal/gazetteer"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Resolver - резолвер координат с фиксированной цепочкой стратегий.
// Никогда не завершается ошибкой наружу: при провале всех стратегий
// срабатывает терминальный фолбэк. Единственное изменяемое состояние -
// кэш результатов на время жизни процесса.
type Resolver struct {
	strategies []strategy
	logger     *logrus.Logger

	mu    sync.RWMutex
	cache map[string]*models.GeocodeResult
}

// NewResolver собирает цепочку стратегий в фиксированном порядке приоритета.
// Внешние клиенты могут быть nil (нет ключа API) - их ступени пропускаются.
func NewResolver(forward ForwardClient, places PlacesClient, gaz *gazetteer.Gazetteer, logger *logrus.Logger) *Resolver {
	var chain []strategy
	if forward != nil {
		chain = append(chain,
			&forwardStrategy{client: forward, bounds: ServiceBounds},
			&cityOnlyStrategy{client: forward, bounds: ServiceBounds},
		)
	}
	if places != nil {
		chain = append(chain, &placesStrategy{client: places, bounds: ServiceBounds})
	}
	chain = append(chain,
		&gazetteerStrategy{gaz: gaz},
		&extractionStrategy{gaz: gaz},
		&defaultStrategy{},
	)

	return &Resolver{
		strategies: chain,
		logger:     logger,
		cache:      make(map[string]*models.GeocodeResult),
	}
}

// Resolve превращает текст местоположения в координаты, пробуя стратегии по
// порядку. rawText - полный текст сообщения для последнего текстового фолбэка.
// Повторный вызов с теми же входами детерминированно возвращает тот же
// результат из кэша. Отмена контекста проверяется на границах стратегий;
// частичное состояние наружу не возвращается.
func (r *Resolver) Resolve(ctx context.Context, locationText, cityHint, rawText string) (*models.GeocodeResult, error) {
	key := cacheKey(locationText, cityHint, rawText)

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	log := r.logger.WithFields(logrus.Fields{
		"component": "geocoder",
		"location":  locationText,
		"city":      cityHint,
	})

	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("geocoder: resolve cancelled: %w", err)
		}

		result, ok := s.resolve(ctx, locationText, cityHint, rawText)
		if !ok {
			log.WithField("strategy", s.name()).Debug("Strategy failed, falling through")
			continue
		}

		log.WithFields(logrus.Fields{
			"strategy":   s.name(),
			"method":     result.Method,
			"confidence": result.Confidence,
		}).Info("Location resolved")

		r.mu.Lock()
		// Гонка вставок по одному ключу разрешается последней записью:
		// значения для одного ключа идентичны по построению цепочки.
		r.cache[key] = result
		r.mu.Unlock()
		return result, nil
	}

	// Недостижимо: defaultStrategy всегда успешна
	return nil, fmt.Errorf("geocoder: no strategy produced a result")
}

func cacheKey(locationText, cityHint, rawText string) string {
	return gazetteer.Normalize(locationText) + "|" + gazetteer.Normalize(cityHint) + "|" + gazetteer.Normalize(rawText)
}
