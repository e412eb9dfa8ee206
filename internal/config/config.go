package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string
	HTTPPort    string
	LogLevel    string

	// Redis Config
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Внешние коллабораторы
	ExtractionAPIURL    string
	GeocodingAPIURL     string
	PlacesAPIURL        string
	GeocodingAPIKey     string
	VectorIndexURL      string
	CollaboratorTimeout time.Duration

	// Корреляция дубликатов
	SimilarityThreshold float64
	DedupWindowBack     time.Duration
	DedupWindowForward  time.Duration
	DedupDistanceKm     float64
	SimilarCandidates   int

	// Оценка риска
	DefaultRadiusKm    float64
	AnalysisWindowDays int

	// Оповещения (вебхуки)
	WebhookURL             string
	WebhookSecret          string
	WebhookTimeout         time.Duration
	WebhookMaxRetries      int
	WebhookBaseDelay       time.Duration
	AlertSeverityThreshold int

	// API Keys for authentication
	APIKeys []string
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		ExtractionAPIURL:    os.Getenv("EXTRACTION_API_URL"),
		GeocodingAPIURL:     os.Getenv("GEOCODING_API_URL"),
		PlacesAPIURL:        os.Getenv("PLACES_API_URL"),
		GeocodingAPIKey:     os.Getenv("GEOCODING_API_KEY"),
		VectorIndexURL:      os.Getenv("VECTOR_INDEX_URL"),
		CollaboratorTimeout: getEnvAsDuration("COLLABORATOR_TIMEOUT", 5*time.Second),

		SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.4),
		DedupWindowBack:     getEnvAsDuration("DEDUP_WINDOW_BACK", 6*time.Hour),
		DedupWindowForward:  getEnvAsDuration("DEDUP_WINDOW_FORWARD", time.Hour),
		DedupDistanceKm:     getEnvAsFloat("DEDUP_DISTANCE_KM", 2.0),
		SimilarCandidates:   getEnvAsInt("SIMILAR_CANDIDATES", 10),

		DefaultRadiusKm:    getEnvAsFloat("DEFAULT_RADIUS_KM", 2.0),
		AnalysisWindowDays: getEnvAsInt("ANALYSIS_WINDOW_DAYS", 30),

		WebhookURL:             os.Getenv("WEBHOOK_URL"),
		WebhookSecret:          os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:         getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:      getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:       getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		AlertSeverityThreshold: getEnvAsInt("ALERT_SEVERITY_THRESHOLD", 7),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
