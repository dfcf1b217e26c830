package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	DatabaseURL              string
	AutoMigrate              bool
	CORSAllowedOrigins       []string
	MatchTimeoutMillis       int
	MaxPatternLength         int
	MaxTargetLength          int
	MaxQuestions             int
	MaxQuestionSeconds       int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		MatchTimeoutMillis:       250,
		MaxPatternLength:         200,
		MaxTargetLength:          2000,
		MaxQuestions:             100,
		MaxQuestionSeconds:       3600,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.AutoMigrate = boolValue("AUTO_MIGRATE")
	cfg.CORSAllowedOrigins = listValue("CORS_ALLOWED_ORIGINS")
	cfg.MatchTimeoutMillis = positiveInt("MATCH_TIMEOUT_MS", cfg.MatchTimeoutMillis)
	cfg.MaxPatternLength = positiveInt("MAX_PATTERN_LENGTH", cfg.MaxPatternLength)
	cfg.MaxTargetLength = positiveInt("MAX_TARGET_LENGTH", cfg.MaxTargetLength)
	cfg.MaxQuestions = positiveInt("MAX_QUESTIONS", cfg.MaxQuestions)
	cfg.MaxQuestionSeconds = positiveInt("MAX_QUESTION_SECONDS", cfg.MaxQuestionSeconds)
	cfg.DBMaxOpenConns = positiveInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = positiveInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)
	cfg.DBConnMaxLifetimeSeconds = positiveInt("DB_CONN_MAX_LIFETIME_SECONDS", cfg.DBConnMaxLifetimeSeconds)
	cfg.DBConnMaxIdleTimeSeconds = positiveInt("DB_CONN_MAX_IDLE_SECONDS", cfg.DBConnMaxIdleTimeSeconds)
	return cfg
}

func (c Config) MatchTimeout() time.Duration {
	return time.Duration(c.MatchTimeoutMillis) * time.Millisecond
}

func positiveInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func boolValue(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}

func listValue(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
