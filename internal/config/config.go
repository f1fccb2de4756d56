package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Index    IndexConfig
	Search   SearchConfig
	Elastic  ElasticConfig
	Cache    CacheConfig
	Rank     RankConfig
	Model    ModelConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// IndexConfig holds index snapshot configuration
type IndexConfig struct {
	// Path is the base snapshot file. EnhancedPath, when it exists on disk,
	// takes precedence: it carries externally scraped rating sources.
	Path         string
	EnhancedPath string
}

// SearchConfig holds retrieval and response limits
type SearchConfig struct {
	MaxCandidates int // retrieval cap per query
	MaxResults    int // items returned by /api/suggest
}

// ElasticConfig holds the optional remote search engine configuration
type ElasticConfig struct {
	Enabled bool
	URL     string
	Index   string
	Timeout time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	Enabled bool
	// Dir is the badger directory; empty means an in-memory store.
	Dir string
	TTL time.Duration
}

// RankConfig holds the heuristic blend weights used when no model artifact
// was loaded. Must stay in sync with the training-time feature contract.
type RankConfig struct {
	WeightMatch   float64
	WeightRating  float64
	WeightReviews float64
}

// ModelConfig holds scoring-model artifact configuration
type ModelConfig struct {
	// Path points at the opaque predictor blob (ONNX). WeightsPath points at
	// the plain {"weights":[...],"intercept":...} file. Both are optional.
	Path        string
	WeightsPath string
	OrtLibrary  string
	InputName   string
	OutputName  string
}

// PostgresConfig holds the optional external destinations store. When DSN is
// empty the index loads from the snapshot file only.
type PostgresConfig struct {
	DSN                string
	Table              string
	MaxConnections     int
	MaxIdleConnections int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8001),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8000"),
		},
		Index: IndexConfig{
			Path:         getEnv("INDEX_PATH", "data/places_index.json"),
			EnhancedPath: getEnv("INDEX_ENHANCED_PATH", "data/places_index_enhanced.json"),
		},
		Search: SearchConfig{
			MaxCandidates: getEnvAsInt("SEARCH_MAX_CANDIDATES", 50),
			MaxResults:    getEnvAsInt("SEARCH_MAX_RESULTS", 10),
		},
		Elastic: ElasticConfig{
			Enabled: getEnvAsBool("ENABLE_ELASTICSEARCH", false),
			URL:     getEnv("ES_URL", "http://localhost:9200"),
			Index:   getEnv("ES_INDEX", "places"),
			Timeout: time.Duration(getEnvAsInt("ES_TIMEOUT", 2)) * time.Second,
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("ENABLE_CACHING", true),
			Dir:     getEnv("CACHE_DIR", "data/cache"),
			TTL:     time.Duration(getEnvAsInt("CACHE_TTL", 3600)) * time.Second,
		},
		Rank: RankConfig{
			WeightMatch:   getEnvAsFloat("RANK_WEIGHT_MATCH", 0.6),
			WeightRating:  getEnvAsFloat("RANK_WEIGHT_RATING", 0.25),
			WeightReviews: getEnvAsFloat("RANK_WEIGHT_REVIEWS", 0.15),
		},
		Model: ModelConfig{
			Path:        getEnv("MODEL_PATH", "model.onnx"),
			WeightsPath: getEnv("MODEL_WEIGHTS_PATH", "model.json"),
			OrtLibrary:  getEnv("MODEL_ORT_LIBRARY", ""),
			InputName:   getEnv("MODEL_INPUT_NAME", "float_input"),
			OutputName:  getEnv("MODEL_OUTPUT_NAME", "variable"),
		},
		Postgres: PostgresConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Table:              getEnv("PG_TABLE", "destinations"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Search.MaxResults <= 0 || cfg.Search.MaxCandidates <= 0 {
		return nil, fmt.Errorf("search limits must be positive (candidates=%d, results=%d)",
			cfg.Search.MaxCandidates, cfg.Search.MaxResults)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warnf("Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warnf("Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	switch strings.ToLower(valueStr) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		log.Warnf("Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
}
