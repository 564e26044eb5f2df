// Package config provides configuration management for Prospect.
// It loads settings from environment variables with the PROSPECT_ prefix,
// optionally overlaid on a YAML config file, and provides defaults for all
// options except the default organization id, which must be set explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the Prospect application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	LLM       LLMConfig       `yaml:"llm"`
	Security  SecurityConfig  `yaml:"security"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"` // Server port (default: 7474)
	Host string `yaml:"host"` // Server host (default: 127.0.0.1)
}

// StorageConfig contains database configuration.
type StorageConfig struct {
	// Engine selects the storage backend: postgres or sqlite (default: postgres).
	Engine string `yaml:"engine"`

	// PostgresDSN is the connection string for the postgres engine.
	PostgresDSN string `yaml:"postgres_dsn"`

	// SQLitePath is the database file path for the sqlite engine (default: ./data/prospect.db).
	SQLitePath string `yaml:"sqlite_path"`
}

// LLMConfig contains LLM and embedding provider configuration.
type LLMConfig struct {
	Provider             string `yaml:"provider"`               // ollama or openai (default: ollama)
	OllamaURL            string `yaml:"ollama_url"`             // default: http://localhost:11434
	OllamaModel          string `yaml:"ollama_model"`           // parsing model (default: qwen2.5:7b)
	OllamaEmbeddingModel string `yaml:"ollama_embedding_model"` // default: nomic-embed-text
	OpenAIAPIKey         string `yaml:"openai_api_key"`
	OpenAIModel          string `yaml:"openai_model"`           // default: gpt-4o-mini
	OpenAIEmbeddingModel string `yaml:"openai_embedding_model"` // default: text-embedding-3-small
	EmbeddingDimension   int    `yaml:"embedding_dimension"`    // default: 512
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	Mode     string `yaml:"mode"`      // development or production (default: development)
	APIToken string `yaml:"api_token"` // bearer token required in production mode
}

// DiscoveryConfig contains the tunables of the discovery pipeline.
//
// The similarity and confidence floors are empirically chosen; the only
// relationship the pipeline relies on is that the subject floor is looser
// than the criteria floor (occupation vocabulary is noisier than
// school/company/location names).
type DiscoveryConfig struct {
	// SubjectSimilarityMin gates subject matches (default: 0.3, exclusive).
	SubjectSimilarityMin float64 `yaml:"subject_similarity_min"`

	// CriteriaSimilarityMin gates criteria matches (default: 0.4, exclusive).
	CriteriaSimilarityMin float64 `yaml:"criteria_similarity_min"`

	// EvidenceConfidenceMin gates evidence extraction confidence (default: 0.35, exclusive).
	EvidenceConfidenceMin float64 `yaml:"evidence_confidence_min"`

	// CandidateLimit caps each nearest-neighbor retrieval pass (default: 100).
	CandidateLimit int `yaml:"candidate_limit"`

	// TopEvidencePerCategory caps the evidence kept per match category (default: 5).
	TopEvidencePerCategory int `yaml:"top_evidence_per_category"`

	// DefaultNumResults is used when the request omits num_results (default: 20).
	DefaultNumResults int `yaml:"default_num_results"`

	// DefaultOrganizationID is used when the request omits organization_id.
	// Required: there is no built-in default.
	DefaultOrganizationID string `yaml:"default_organization_id"`

	// LinkedInSourceName is the evidence source_name tag that carries a
	// person's LinkedIn profile URL (default: linkedin_enrichment).
	LinkedInSourceName string `yaml:"linkedin_source_name"`

	// RequestTimeout bounds a discovery request end to end (default: 60s).
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// EmbeddingCacheSize is the LRU capacity for query-term embeddings (default: 1024).
	EmbeddingCacheSize int `yaml:"embedding_cache_size"`
}

// LoadConfig loads configuration from the YAML file named by PROSPECT_CONFIG
// (when set) and then applies environment variable overrides. Returns an
// error when the config file is unreadable or when required values are
// missing after both sources are applied.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("PROSPECT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Discovery.DefaultOrganizationID == "" {
		return errors.New("config: default organization id is required (PROSPECT_DEFAULT_ORGANIZATION_ID)")
	}
	if c.Storage.Engine != "postgres" && c.Storage.Engine != "sqlite" {
		return fmt.Errorf("config: unknown storage engine %q", c.Storage.Engine)
	}
	if c.Storage.Engine == "postgres" && c.Storage.PostgresDSN == "" {
		return errors.New("config: postgres DSN is required (PROSPECT_POSTGRES_DSN)")
	}
	if c.LLM.EmbeddingDimension <= 0 {
		return fmt.Errorf("config: embedding dimension must be positive, got %d", c.LLM.EmbeddingDimension)
	}
	if c.Discovery.CandidateLimit <= 0 {
		return fmt.Errorf("config: candidate limit must be positive, got %d", c.Discovery.CandidateLimit)
	}
	if c.Discovery.TopEvidencePerCategory <= 0 {
		return fmt.Errorf("config: top evidence per category must be positive, got %d", c.Discovery.TopEvidencePerCategory)
	}
	return nil
}

// defaultConfig constructs a Config with built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 7474,
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Engine:     "postgres",
			SQLitePath: "./data/prospect.db",
		},
		LLM: LLMConfig{
			Provider:             "ollama",
			OllamaURL:            "http://localhost:11434",
			OllamaModel:          "qwen2.5:7b",
			OllamaEmbeddingModel: "nomic-embed-text",
			OpenAIModel:          "gpt-4o-mini",
			OpenAIEmbeddingModel: "text-embedding-3-small",
			EmbeddingDimension:   512,
		},
		Security: SecurityConfig{
			Mode: "development",
		},
		Discovery: DiscoveryConfig{
			SubjectSimilarityMin:   0.3,
			CriteriaSimilarityMin:  0.4,
			EvidenceConfidenceMin:  0.35,
			CandidateLimit:         100,
			TopEvidencePerCategory: 5,
			DefaultNumResults:      20,
			LinkedInSourceName:     "linkedin_enrichment",
			RequestTimeout:         60 * time.Second,
			EmbeddingCacheSize:     1024,
		},
	}
}

// applyEnv overrides config fields from PROSPECT_ environment variables.
func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnvInt("PROSPECT_PORT", cfg.Server.Port)
	cfg.Server.Host = getEnv("PROSPECT_HOST", cfg.Server.Host)

	cfg.Storage.Engine = getEnv("PROSPECT_STORAGE_ENGINE", cfg.Storage.Engine)
	cfg.Storage.PostgresDSN = getEnv("PROSPECT_POSTGRES_DSN", cfg.Storage.PostgresDSN)
	cfg.Storage.SQLitePath = getEnv("PROSPECT_SQLITE_PATH", cfg.Storage.SQLitePath)

	cfg.LLM.Provider = getEnv("PROSPECT_LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.OllamaURL = getEnv("PROSPECT_OLLAMA_URL", cfg.LLM.OllamaURL)
	cfg.LLM.OllamaModel = getEnv("PROSPECT_OLLAMA_MODEL", cfg.LLM.OllamaModel)
	cfg.LLM.OllamaEmbeddingModel = getEnv("PROSPECT_OLLAMA_EMBEDDING_MODEL", cfg.LLM.OllamaEmbeddingModel)
	cfg.LLM.OpenAIAPIKey = getEnv("PROSPECT_OPENAI_API_KEY", cfg.LLM.OpenAIAPIKey)
	cfg.LLM.OpenAIModel = getEnv("PROSPECT_OPENAI_MODEL", cfg.LLM.OpenAIModel)
	cfg.LLM.OpenAIEmbeddingModel = getEnv("PROSPECT_OPENAI_EMBEDDING_MODEL", cfg.LLM.OpenAIEmbeddingModel)
	cfg.LLM.EmbeddingDimension = getEnvInt("PROSPECT_EMBEDDING_DIMENSION", cfg.LLM.EmbeddingDimension)

	cfg.Security.Mode = getEnv("PROSPECT_SECURITY_MODE", cfg.Security.Mode)
	cfg.Security.APIToken = getEnv("PROSPECT_API_TOKEN", cfg.Security.APIToken)

	cfg.Discovery.SubjectSimilarityMin = getEnvFloat("PROSPECT_SUBJECT_SIMILARITY_MIN", cfg.Discovery.SubjectSimilarityMin)
	cfg.Discovery.CriteriaSimilarityMin = getEnvFloat("PROSPECT_CRITERIA_SIMILARITY_MIN", cfg.Discovery.CriteriaSimilarityMin)
	cfg.Discovery.EvidenceConfidenceMin = getEnvFloat("PROSPECT_EVIDENCE_CONFIDENCE_MIN", cfg.Discovery.EvidenceConfidenceMin)
	cfg.Discovery.CandidateLimit = getEnvInt("PROSPECT_CANDIDATE_LIMIT", cfg.Discovery.CandidateLimit)
	cfg.Discovery.TopEvidencePerCategory = getEnvInt("PROSPECT_TOP_EVIDENCE_PER_CATEGORY", cfg.Discovery.TopEvidencePerCategory)
	cfg.Discovery.DefaultNumResults = getEnvInt("PROSPECT_DEFAULT_NUM_RESULTS", cfg.Discovery.DefaultNumResults)
	cfg.Discovery.DefaultOrganizationID = getEnv("PROSPECT_DEFAULT_ORGANIZATION_ID", cfg.Discovery.DefaultOrganizationID)
	cfg.Discovery.LinkedInSourceName = getEnv("PROSPECT_LINKEDIN_SOURCE_NAME", cfg.Discovery.LinkedInSourceName)
	cfg.Discovery.RequestTimeout = getEnvDuration("PROSPECT_REQUEST_TIMEOUT", cfg.Discovery.RequestTimeout)
	cfg.Discovery.EmbeddingCacheSize = getEnvInt("PROSPECT_EMBEDDING_CACHE_SIZE", cfg.Discovery.EmbeddingCacheSize)
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable (e.g. "30s") or
// returns a default value. Unparseable values fall back to the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
