package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Gemini    GeminiConfig
	Matcher   MatcherConfig
	Extractor ExtractorConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogJSON  bool
	LogDebug bool
}

type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	ResumesPrefix string
	ResultsPrefix string
	JobsKey       string
	MaxFileSize   int64
}

type GeminiConfig struct {
	APIKey        string
	Model         string
	EmbedModel    string
	EmbedMaxChars int
}

type MatcherConfig struct {
	TopK        int
	Concurrency int
}

type ExtractorConfig struct {
	PollInterval    time.Duration
	MaxPollAttempts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "3000"),
			Env:      getEnv("ENV", "development"),
			LogJSON:  getEnvAsBool("LOG_JSON", false),
			LogDebug: getEnvAsBool("LOG_DEBUG", false),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:        getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:        getEnv("MATCH_BUCKET", "resume-match"),
			ResumesPrefix: getEnv("RESUMES_PREFIX", "resumes/"),
			ResultsPrefix: getEnv("RESULTS_PREFIX", "results/"),
			JobsKey:       getEnv("JOBS_KEY", "jobs/jobs.json"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Gemini: GeminiConfig{
			APIKey:        getEnv("GEMINI_API_KEY", ""),
			Model:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel:    getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			EmbedMaxChars: getEnvAsInt("EMBED_MAX_CHARS", 8000),
		},
		Matcher: MatcherConfig{
			TopK:        getEnvAsInt("MATCH_TOP_K", 5),
			Concurrency: getEnvAsInt("PIPELINE_CONCURRENCY", 4),
		},
		Extractor: ExtractorConfig{
			PollInterval:    getEnvAsDuration("EXTRACT_POLL_INTERVAL", "2500ms"),
			MaxPollAttempts: getEnvAsInt("EXTRACT_MAX_POLL_ATTEMPTS", 120),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
