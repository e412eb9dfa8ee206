package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_risk_system/internal/models"
	"github.com/shenikar/incident_risk_system/internal/service"
)

const incidentColumns = `
	id,
	summary,
	raw_text,
	occurred_at,
	severity,
	event_type,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	city,
	street,
	neighborhood,
	formatted_address,
	source_channel,
	source_message_id,
	created_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте в бд. Нарушение уникального ключа
// (source_channel, source_message_id) отображается в service.ErrDuplicateSource,
// поэтому гонка двух одинаковых сообщений разрешается атомарно на уровне бд.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (
			summary, raw_text, occurred_at, severity, event_type,
			location, city, street, neighborhood, formatted_address,
			source_channel, source_message_id
		)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Summary,
		incident.RawText,
		incident.Timestamp,
		incident.Severity,
		incident.EventType,
		incident.Longitude,
		incident.Latitude,
		incident.City,
		incident.Street,
		incident.Neighborhood,
		incident.FormattedAddress,
		incident.SourceChannel,
		incident.SourceMessageID,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrDuplicateSource
		}
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// GetBySource возвращает инцидент по паре (канал, сообщение) или nil,
// если такая пара еще не сохранялась
func (r *IncidentRepository) GetBySource(ctx context.Context, sourceChannel string, sourceMessageID int64) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE source_channel = $1 AND source_message_id = $2;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, sourceChannel, sourceMessageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident by source: %w", err)
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (r *IncidentRepository) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	// рассчитываем смещение
	offset := (page - 1) * pageSize

	query := `SELECT ` + incidentColumns + `
		FROM incidents
		ORDER BY occurred_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	return collectIncidents(rows)
}

// FindInArea находит инциденты не старше since в радиусе radiusKm от точки.
// ST_DWithin по geography считает расстояние в метрах по сфероиду.
func (r *IncidentRepository) FindInArea(ctx context.Context, lat, lon, radiusKm float64, since time.Time) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			occurred_at >= $1
			AND ST_DWithin(
				location,
				ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography,
				$4
			)
		ORDER BY occurred_at DESC;
	`
	rows, err := r.db.Query(ctx, query, since, lon, lat, radiusKm*1000)
	if err != nil {
		return nil, fmt.Errorf("failed to find incidents in area: %w", err)
	}
	defer rows.Close()

	return collectIncidents(rows)
}

// GetStatistics возвращает сводную статистику хранилища
func (r *IncidentRepository) GetStatistics(ctx context.Context) (*models.StoreStats, error) {
	stats := &models.StoreStats{
		IncidentsByCity: make(map[string]int),
		IncidentsByType: make(map[models.EventType]int),
	}

	summaryQuery := `
		SELECT COUNT(*), COALESCE(AVG(severity), 0), COALESCE(MAX(severity), 0)
		FROM incidents;
	`
	err := r.db.QueryRow(ctx, summaryQuery).Scan(&stats.TotalIncidents, &stats.AvgSeverity, &stats.MaxSeverity)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident summary stats: %w", err)
	}

	cityQuery := `
		SELECT city, COUNT(*)
		FROM incidents
		WHERE city <> ''
		GROUP BY city;
	`
	rows, err := r.db.Query(ctx, cityQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get per-city stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var city string
		var count int
		if err := rows.Scan(&city, &count); err != nil {
			return nil, fmt.Errorf("failed to scan city stats row: %w", err)
		}
		stats.IncidentsByCity[city] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error city stats iteration: %w", err)
	}

	typeQuery := `
		SELECT event_type, COUNT(*)
		FROM incidents
		GROUP BY event_type;
	`
	typeRows, err := r.db.Query(ctx, typeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get per-type stats: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var eventType models.EventType
		var count int
		if err := typeRows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type stats row: %w", err)
		}
		stats.IncidentsByType[eventType] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("error type stats iteration: %w", err)
	}

	return stats, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Устанавливаем срок жизни кэша, например, 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncident(row rowScanner) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Summary,
		&incident.RawText,
		&incident.Timestamp,
		&incident.Severity,
		&incident.EventType,
		&incident.Latitude,
		&incident.Longitude,
		&incident.City,
		&incident.Street,
		&incident.Neighborhood,
		&incident.FormattedAddress,
		&incident.SourceChannel,
		&incident.SourceMessageID,
		&incident.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

func collectIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}
