package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "socialgraph/domain/config"

	"gopkg.in/yaml.v3"
)

// Data sources for the user and post readers
const (
	DataSourceDynamoDB = "dynamodb"
	DataSourceMemory   = "memory"
)

// Config holds all application configuration. Values come from defaults,
// then the optional YAML file named by CONFIG_FILE, then environment
// variables.
type Config struct {
	// Server configuration
	ServerAddress  string        `yaml:"server_address"`
	Environment    string        `yaml:"environment"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Data source
	DataSource   string `yaml:"data_source"`
	SnapshotFile string `yaml:"snapshot_file"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"table_name"`
	IndexName     string `yaml:"index_name"`      // GSI1 - posts by author, shares by sharer
	GSI2IndexName string `yaml:"gsi2_index_name"` // GSI2 - posts by visibility
	EventBusName  string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Rate limiting, per client
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	// Feature flags
	EnableMetrics bool     `yaml:"enable_metrics"`
	EnableTracing bool     `yaml:"enable_tracing"`
	EnableCORS    bool     `yaml:"enable_cors"`
	CORSOrigins   []string `yaml:"cors_origins"`

	// ConfigFile is the YAML file the configuration was read from, if any
	ConfigFile string `yaml:"-"`

	// Domain holds the business tunables, overridable from the file's
	// domain section
	Domain *domainconfig.DomainConfig `yaml:"-"`
}

// defaults returns the configuration used when nothing else is set
func defaults() *Config {
	return &Config{
		ServerAddress:  ":8080",
		Environment:    "development",
		RequestTimeout: 30 * time.Second,
		DataSource:     DataSourceDynamoDB,
		AWSRegion:      "us-west-2",
		DynamoDBTable:  "socialgraph",
		IndexName:      "GSI1",
		GSI2IndexName:  "GSI2",
		LogLevel:       "info",
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		EnableCORS:     true,
		CORSOrigins:    []string{"*"},
	}
}

// LoadConfig loads configuration from the config file and environment
func LoadConfig() (*Config, error) {
	cfg := defaults()
	cfg.ConfigFile = getEnv("CONFIG_FILE", "")

	var domainSection yaml.Node
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if domainSection, err = parseFile(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	domain, err := buildDomainConfig(cfg.Environment, domainSection)
	if err != nil {
		return nil, err
	}
	cfg.Domain = domain

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDomainConfig re-reads the domain section of path on top of the
// defaults for environment. It is used when the file changes at runtime.
func LoadDomainConfig(path, environment string) (*domainconfig.DomainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	domainSection, err := parseFile(data, defaults())
	if err != nil {
		return nil, err
	}
	return buildDomainConfig(environment, domainSection)
}

// parseFile decodes the top-level settings into cfg and returns the raw
// domain section, which is decoded once the environment is known
func parseFile(data []byte, cfg *Config) (yaml.Node, error) {
	var section struct {
		Domain yaml.Node `yaml:"domain"`
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return yaml.Node{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &section); err != nil {
		return yaml.Node{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return section.Domain, nil
}

func buildDomainConfig(environment string, section yaml.Node) (*domainconfig.DomainConfig, error) {
	domain := domainconfig.LoadDomainConfig(environment)
	if section.Kind != 0 {
		if err := section.Decode(domain); err != nil {
			return nil, fmt.Errorf("failed to parse domain section: %w", err)
		}
	}
	if err := domain.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain configuration: %w", err)
	}
	return domain, nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)

	c.DataSource = getEnv("DATA_SOURCE", c.DataSource)
	c.SnapshotFile = getEnv("SNAPSHOT_FILE", c.SnapshotFile)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.GSI2IndexName = getEnv("GSI2_INDEX_NAME", c.GSI2IndexName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", "")
	c.IsLambda = getEnvBool("IS_LAMBDA", c.LambdaFunctionName != "")

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.DataSource {
	case DataSourceDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required for the dynamodb data source")
		}
		if c.IndexName == "" || c.GSI2IndexName == "" {
			return fmt.Errorf("INDEX_NAME and GSI2_INDEX_NAME are required for the dynamodb data source")
		}
	case DataSourceMemory:
		if c.SnapshotFile == "" {
			return fmt.Errorf("SNAPSHOT_FILE is required for the memory data source")
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}

	if c.IsProduction() && c.EventBusName == "" {
		return fmt.Errorf("EVENT_BUS_NAME is required in production")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
