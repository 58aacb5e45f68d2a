package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream   UpstreamConfig
	Model      ModelConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Dashboard  DashboardConfig
	Generation GenerationConfig
	Reports    ReportsConfig
}

// UpstreamConfig points at the STELLAR platform backend serving raw
// dashboard data and accepting created questions.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ModelConfig configures the OpenAI-compatible generation endpoint.
type ModelConfig struct {
	BaseURL     string
	APIKey      string
	Name        string
	Timeout     time.Duration
	Temperature float64
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs caching of aggregated dashboard payloads.
type DashboardConfig struct {
	CacheTTL time.Duration
}

// GenerationConfig bounds the question generation loop.
type GenerationConfig struct {
	MaxQuestions     int
	SafetyMultiplier int
}

// ReportsConfig tunes exported report rendering.
type ReportsConfig struct {
	SchoolName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 15*time.Second),
	}

	cfg.Model = ModelConfig{
		BaseURL:     v.GetString("MODEL_BASE_URL"),
		APIKey:      v.GetString("MODEL_API_KEY"),
		Name:        v.GetString("MODEL_NAME"),
		Timeout:     parseDuration(v.GetString("MODEL_TIMEOUT"), 60*time.Second),
		Temperature: v.GetFloat64("MODEL_TEMPERATURE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Generation = GenerationConfig{
		MaxQuestions:     v.GetInt("GENERATION_MAX_QUESTIONS"),
		SafetyMultiplier: v.GetInt("GENERATION_SAFETY_MULTIPLIER"),
	}

	cfg.Reports = ReportsConfig{
		SchoolName: v.GetString("REPORTS_SCHOOL_NAME"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/admin")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3000")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")

	v.SetDefault("MODEL_BASE_URL", "")
	v.SetDefault("MODEL_API_KEY", "")
	v.SetDefault("MODEL_NAME", "gpt-4o-mini")
	v.SetDefault("MODEL_TIMEOUT", "60s")
	v.SetDefault("MODEL_TEMPERATURE", 0.7)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("GENERATION_MAX_QUESTIONS", 25)
	v.SetDefault("GENERATION_SAFETY_MULTIPLIER", 3)

	v.SetDefault("REPORTS_SCHOOL_NAME", "STELLAR")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
