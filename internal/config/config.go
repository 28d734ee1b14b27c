package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Coverage CoverageConfig
	Ai       AIConfig
	Cache    CacheConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port                 string
	Environment          string
	LogFilePath          string
	EmbeddingLogFilePath string
	CorsAllowedOrigins   string
	NatsURL              string
	RedisURL             string
	ExecutionEventsTopic string
	JwtSecret            string
	OtelEnabled          bool
	OtelExporterEndpoint string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type StorageConfig struct {
	Root         string
	MaxFiles     int
	MaxTextChars int
}

type CoverageConfig struct {
	LexicalWeight     float64
	SemanticWeight    float64
	SemanticThreshold float64
	OnTrackPercent    float64
	MaxPlanPhrases    int
	MaxChunks         int
	ChunkChars        int
}

type AIConfig struct {
	EmbeddingProvider string // openrouter, ollama, jina or gemini
	OpenRouterModel   string
	OpenRouterReferer string
	OpenRouterAppName string
	OllamaBaseURL     string
	OllamaModel       string
	Timeout           time.Duration
	Retries           int
}

type CacheConfig struct {
	EmbeddingTTL time.Duration
}

type APIKeys struct {
	OpenRouter   string
	Jina         string
	GoogleGemini string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                 getEnv("APP_PORT", "3000"),
			Environment:          getEnv("GO_ENV", "development"),
			LogFilePath:          getEnv("LOG_FILE_PATH", "app.log"),
			EmbeddingLogFilePath: getEnv("EMBEDDING_LOG_FILE_PATH", "logs/embedding.log"),
			CorsAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:              getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
			ExecutionEventsTopic: getEnv("EXECUTION_EVENTS_TOPIC", "COURSE_EXECUTION"),
			JwtSecret:            getEnv("JWT_SECRET", ""),
			OtelEnabled:          getEnv("OTEL_ENABLED", "false") == "true",
			OtelExporterEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Root:         getEnv("UPLOAD_STORAGE_ROOT", "uploads/weekly"),
			MaxFiles:     getEnvAsInt("UPLOAD_MAX_FILES", 200),
			MaxTextChars: getEnvAsInt("UPLOAD_MAX_TEXT_CHARS", 80000),
		},
		Coverage: CoverageConfig{
			LexicalWeight:     getEnvAsFloat("COVERAGE_LEXICAL_WEIGHT", 0.35),
			SemanticWeight:    getEnvAsFloat("COVERAGE_SEMANTIC_WEIGHT", 0.65),
			SemanticThreshold: getEnvAsFloat("COVERAGE_SEMANTIC_THRESHOLD", 0.78),
			OnTrackPercent:    getEnvAsFloat("COVERAGE_ON_TRACK_PERCENT", 80),
			MaxPlanPhrases:    getEnvAsInt("COVERAGE_MAX_PLAN_PHRASES", 30),
			MaxChunks:         getEnvAsInt("COVERAGE_MAX_CHUNKS", 60),
			ChunkChars:        getEnvAsInt("COVERAGE_CHUNK_CHARS", 800),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openrouter"),
			OpenRouterModel:   getEnv("OPENROUTER_EMBED_MODEL", "qwen/qwen3-embedding-4b"),
			OpenRouterReferer: getEnv("OPENROUTER_REFERER", "http://localhost"),
			OpenRouterAppName: getEnv("OPENROUTER_APP_NAME", "course-qa"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			Timeout:           getEnvAsDuration("EMBEDDING_TIMEOUT", 120*time.Second),
			Retries:           getEnvAsInt("EMBEDDING_RETRIES", 1),
		},
		Cache: CacheConfig{
			EmbeddingTTL: getEnvAsDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
		},
		Keys: APIKeys{
			OpenRouter:   getEnv("OPENROUTER_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
