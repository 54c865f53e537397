package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the kreat-retrieval configuration.
type Config struct {
	Mongo     MongoConfig     `yaml:"mongo"`
	Neo4j     Neo4jConfig     `yaml:"neo4j"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// MongoConfig holds document store connection settings.
type MongoConfig struct {
	URI                       string   `yaml:"uri"`
	Database                  string   `yaml:"database"`
	Collections               []string `yaml:"collections"`
	FetchLimit                int64    `yaml:"fetch_limit"`
	MaxPoolSize               uint64   `yaml:"max_pool_size"`
	ServerSelectionTimeoutSec int      `yaml:"server_selection_timeout_sec"`
	ConnectTimeoutSec         int      `yaml:"connect_timeout_sec"`
}

// Neo4jConfig holds graph store connection and query settings.
type Neo4jConfig struct {
	URI                      string `yaml:"uri"`
	Username                 string `yaml:"username"`
	Password                 string `yaml:"password"`
	MaxConnectionLifetimeSec int    `yaml:"max_connection_lifetime_sec"`
	VectorIndex              string `yaml:"vector_index"`
	NumNeighbors             int    `yaml:"num_neighbors"`
}

// EmbeddingConfig holds the Azure OpenAI embedding deployment settings.
// When any of endpoint/api_key/api_version/deployment is unset,
// embeddings are treated as unavailable (not an error).
type EmbeddingConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	APIVersion string `yaml:"api_version"`
	Deployment string `yaml:"deployment"`
	MaxRetries int    `yaml:"max_retries"` // 0 = default
}

// CacheConfig selects the embedding cache backend.
type CacheConfig struct {
	Driver   string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
}

// RetrievalConfig holds orchestration knobs.
type RetrievalConfig struct {
	TopN                 int `yaml:"top_n"`
	AuxTopN              int `yaml:"aux_top_n"`
	OverallTimeoutSec    int `yaml:"overall_timeout_sec"`
	PrimaryTimeoutCapSec int `yaml:"primary_timeout_cap_sec"`
	AuxTimeoutCapSec     int `yaml:"aux_timeout_cap_sec"`
	SafetyMarginSec      int `yaml:"safety_margin_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if len(c.Mongo.Collections) == 0 {
		c.Mongo.Collections = []string{"journals", "patents"}
	}
	if c.Mongo.FetchLimit <= 0 {
		c.Mongo.FetchLimit = 50
	}
	if c.Mongo.MaxPoolSize == 0 {
		c.Mongo.MaxPoolSize = 10
	}
	if c.Mongo.ServerSelectionTimeoutSec <= 0 {
		c.Mongo.ServerSelectionTimeoutSec = 5
	}
	if c.Mongo.ConnectTimeoutSec <= 0 {
		c.Mongo.ConnectTimeoutSec = 5
	}
	if c.Neo4j.MaxConnectionLifetimeSec <= 0 {
		c.Neo4j.MaxConnectionLifetimeSec = 300
	}
	if c.Neo4j.VectorIndex == "" {
		c.Neo4j.VectorIndex = "knowledge_embedding"
	}
	if c.Neo4j.NumNeighbors <= 0 {
		c.Neo4j.NumNeighbors = 10
	}
	if c.Embedding.MaxRetries <= 0 {
		c.Embedding.MaxRetries = 1
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Retrieval.TopN <= 0 {
		c.Retrieval.TopN = 10
	}
	if c.Retrieval.AuxTopN <= 0 {
		c.Retrieval.AuxTopN = 5
	}
	if c.Retrieval.OverallTimeoutSec <= 0 {
		c.Retrieval.OverallTimeoutSec = 25
	}
	if c.Retrieval.PrimaryTimeoutCapSec <= 0 {
		c.Retrieval.PrimaryTimeoutCapSec = 10
	}
	if c.Retrieval.AuxTimeoutCapSec <= 0 {
		c.Retrieval.AuxTimeoutCapSec = 5
	}
	if c.Retrieval.SafetyMarginSec <= 0 {
		c.Retrieval.SafetyMarginSec = 2
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri is required")
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
