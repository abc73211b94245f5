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
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI string
}

type AIConfig struct {
	EmbeddingProvider   string // "openai" or "ollama"
	EmbeddingModel      string
	EmbeddingDimensions int
	VisionProvider      string // "openai" or "ollama"
	VisionModel         string
	OllamaBaseURL       string
	OllamaEmbedModel    string
	OllamaVisionModel   string
}

// PipelineConfig holds the tunables of the query pipeline. Timeouts bound the
// external inference calls plus the similarity query per submission path.
type PipelineConfig struct {
	TopK                  int
	ConfirmThreshold      float64
	MinThreshold          float64
	TextTimeout           time.Duration
	ImageTimeout          time.Duration
	MaxQueryLength        int
	MaxImageSizeMB        int
	SessionTimeout        time.Duration
	TextQueriesPerMinute  int
	ImageQueriesPerMinute int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "pillsee.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 512),
			VisionProvider:      getEnv("VISION_PROVIDER", "openai"),
			VisionModel:         getEnv("VISION_MODEL", "gpt-4o-mini"),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OllamaVisionModel:   getEnv("OLLAMA_VISION_MODEL", "llava"),
		},
		Pipeline: PipelineConfig{
			TopK:                  getEnvAsInt("PIPELINE_TOP_K", 5),
			ConfirmThreshold:      getEnvAsFloat("PIPELINE_CONFIRM_THRESHOLD", 0.75),
			MinThreshold:          getEnvAsFloat("PIPELINE_MIN_THRESHOLD", 0.5),
			TextTimeout:           getEnvAsDuration("PIPELINE_TEXT_TIMEOUT", 3*time.Second),
			ImageTimeout:          getEnvAsDuration("PIPELINE_IMAGE_TIMEOUT", 8*time.Second),
			MaxQueryLength:        getEnvAsInt("PIPELINE_MAX_QUERY_LENGTH", 500),
			MaxImageSizeMB:        getEnvAsInt("PIPELINE_MAX_IMAGE_SIZE_MB", 10),
			SessionTimeout:        getEnvAsDuration("SESSION_TIMEOUT", 30*time.Minute),
			TextQueriesPerMinute:  getEnvAsInt("TEXT_QUERY_LIMIT", 10),
			ImageQueriesPerMinute: getEnvAsInt("IMAGE_QUERY_LIMIT", 5),
		},
	}
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
