package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Extractor ExtractorConfig
	Analysis  AnalysisConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	RetryDelay time.Duration
}

type ExtractorConfig struct {
	MinFileSize      int
	FallbackMinChars int
	ScannedMinBytes  int
	ScannedMaxChars  int
	MaxOCRImages     int
	GarbageRatio     float64
	MaxDownloadBytes int64
	DownloadTimeout  time.Duration
}

type AnalysisConfig struct {
	MinContentChars int
	MaxCVChars      int
	MaxJobChars     int
	StoredCVChars   int
	StoredJobChars  int
	MaxRetries      int
	Temperature     float64
	ScrapeTimeout   time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ats_analyzer"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RetryDelay: getEnvAsDuration("GEMINI_RETRY_DELAY", "600ms"),
		},
		Extractor: ExtractorConfig{
			MinFileSize:      getEnvAsInt("EXTRACT_MIN_FILE_SIZE", 1024),
			FallbackMinChars: getEnvAsInt("EXTRACT_FALLBACK_MIN_CHARS", 50),
			ScannedMinBytes:  getEnvAsInt("EXTRACT_SCANNED_MIN_BYTES", 100*1024),
			ScannedMaxChars:  getEnvAsInt("EXTRACT_SCANNED_MAX_CHARS", 200),
			MaxOCRImages:     getEnvAsInt("EXTRACT_MAX_OCR_IMAGES", 3),
			GarbageRatio:     getEnvAsFloat("EXTRACT_GARBAGE_RATIO", 0.3),
			MaxDownloadBytes: getEnvAsInt64("EXTRACT_MAX_DOWNLOAD_BYTES", 10485760),
			DownloadTimeout:  getEnvAsDuration("EXTRACT_DOWNLOAD_TIMEOUT", "15s"),
		},
		Analysis: AnalysisConfig{
			MinContentChars: getEnvAsInt("ANALYSIS_MIN_CONTENT_CHARS", 50),
			MaxCVChars:      getEnvAsInt("ANALYSIS_MAX_CV_CHARS", 20000),
			MaxJobChars:     getEnvAsInt("ANALYSIS_MAX_JOB_CHARS", 18000),
			StoredCVChars:   getEnvAsInt("ANALYSIS_STORED_CV_CHARS", 25000),
			StoredJobChars:  getEnvAsInt("ANALYSIS_STORED_JOB_CHARS", 20000),
			MaxRetries:      getEnvAsInt("ANALYSIS_MAX_RETRIES", 3),
			Temperature:     getEnvAsFloat("ANALYSIS_TEMPERATURE", 0.2),
			ScrapeTimeout:   getEnvAsDuration("ANALYSIS_SCRAPE_TIMEOUT", "10s"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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
