package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	S3         S3Config
	Log        LogConfig
	Parser     ParserConfig
	Resilience ResilienceConfig
	Ingest     IngestConfig
	CORS       CORSConfig
	Notify     NotifyConfig
	Metrics    MetricsConfig
}

// NotifyConfig holds batch review notification settings.
type NotifyConfig struct {
	Provider        string `mapstructure:"provider"`
	Region          string `mapstructure:"region"`
	FromAddress     string `mapstructure:"from_address"`
	FromName        string `mapstructure:"from_name"`
	OperatorAddress string `mapstructure:"operator_address"`
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IngestConfig holds document ingestion limits and pipeline tuning.
type IngestConfig struct {
	MaxFileSizeMB        int64   `mapstructure:"max_file_size_mb"`
	MaxFiles             int     `mapstructure:"max_files"`
	PersistConcurrency   int     `mapstructure:"persist_concurrency"`
	AutoSave             bool    `mapstructure:"auto_save"`
	ArchiveUploads       bool    `mapstructure:"archive_uploads"`
	ReviewConfidence     float64 `mapstructure:"review_confidence"`
	MaxStayNights        int     `mapstructure:"max_stay_nights"`
	IncludeExtractedText bool    `mapstructure:"include_extracted_text"`
}

// MaxFileSizeBytes returns the per-file upload limit in bytes.
func (c *IngestConfig) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single generative model provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	VisionModel  string `mapstructure:"vision_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds generative model settings with multi-provider support.
type ParserConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	VisionModel  string `mapstructure:"vision_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		VisionModel:  p.VisionModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// APIKeyConfigured reports whether any provider has an API key.
func (p *ParserConfig) APIKeyConfigured() bool {
	if p.PrimaryConfig().APIKey != "" {
		return true
	}
	if s := p.SecondaryConfig(); s != nil && s.APIKey != "" {
		return true
	}
	if t := p.TertiaryConfig(); t != nil && t.APIKey != "" {
		return true
	}
	return false
}

// ResilienceConfig holds rate limiting and circuit breaker settings applied to every provider.
type ResilienceConfig struct {
	RequestsPerSecond   float64       `mapstructure:"requests_per_second"`
	Burst               int           `mapstructure:"burst"`
	BreakerEnabled      bool          `mapstructure:"breaker_enabled"`
	BreakerMinRequests  uint32        `mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the raw upload archive.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the STAYBOOK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STAYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "staybook")
	v.SetDefault("db.password", "staybook_secret")
	v.SetDefault("db.name", "staybook_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.bucket", "staybook-uploads")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Ingest defaults
	v.SetDefault("ingest.max_file_size_mb", 10)
	v.SetDefault("ingest.max_files", 10)
	v.SetDefault("ingest.persist_concurrency", 4)
	v.SetDefault("ingest.auto_save", true)
	v.SetDefault("ingest.archive_uploads", false)
	v.SetDefault("ingest.review_confidence", 0.6)
	v.SetDefault("ingest.max_stay_nights", 30)
	v.SetDefault("ingest.include_extracted_text", true)

	// Resilience defaults
	v.SetDefault("resilience.requests_per_second", 2.0)
	v.SetDefault("resilience.burst", 4)
	v.SetDefault("resilience.breaker_enabled", true)
	v.SetDefault("resilience.breaker_min_requests", 5)
	v.SetDefault("resilience.breaker_failure_ratio", 0.6)
	v.SetDefault("resilience.breaker_open_timeout", "30s")

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "eu-west-1")
	v.SetDefault("notify.from_address", "noreply@staybook.local")
	v.SetDefault("notify.from_name", "Staybook")
	v.SetDefault("notify.operator_address", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Parser defaults (legacy flat)
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gemini-2.0-flash")
	v.SetDefault("parser.vision_model", "")
	v.SetDefault("parser.max_retries", 2)
	v.SetDefault("parser.timeout_secs", 120)

	// Parser primary/secondary/tertiary defaults
	for _, slot := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+slot+".provider", "")
		v.SetDefault("parser."+slot+".api_key", "")
		v.SetDefault("parser."+slot+".default_model", "")
		v.SetDefault("parser."+slot+".vision_model", "")
		v.SetDefault("parser."+slot+".max_retries", 2)
		v.SetDefault("parser."+slot+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "STAYBOOK_SERVER_PORT",
		"server.read_timeout":              "STAYBOOK_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "STAYBOOK_SERVER_WRITE_TIMEOUT",
		"server.environment":               "STAYBOOK_SERVER_ENVIRONMENT",
		"db.host":                          "STAYBOOK_DB_HOST",
		"db.port":                          "STAYBOOK_DB_PORT",
		"db.user":                          "STAYBOOK_DB_USER",
		"db.password":                      "STAYBOOK_DB_PASSWORD",
		"db.name":                          "STAYBOOK_DB_NAME",
		"db.sslmode":                       "STAYBOOK_DB_SSLMODE",
		"db.max_open":                      "STAYBOOK_DB_MAX_OPEN",
		"db.max_idle":                      "STAYBOOK_DB_MAX_IDLE",
		"s3.region":                        "STAYBOOK_S3_REGION",
		"s3.bucket":                        "STAYBOOK_S3_BUCKET",
		"s3.endpoint":                      "STAYBOOK_S3_ENDPOINT",
		"s3.access_key":                    "STAYBOOK_S3_ACCESS_KEY",
		"s3.secret_key":                    "STAYBOOK_S3_SECRET_KEY",
		"log.level":                        "STAYBOOK_LOG_LEVEL",
		"log.format":                       "STAYBOOK_LOG_FORMAT",
		"cors.allowed_origins":             "STAYBOOK_CORS_ALLOWED_ORIGINS",
		"ingest.max_file_size_mb":          "STAYBOOK_INGEST_MAX_FILE_SIZE_MB",
		"ingest.max_files":                 "STAYBOOK_INGEST_MAX_FILES",
		"ingest.persist_concurrency":       "STAYBOOK_INGEST_PERSIST_CONCURRENCY",
		"ingest.auto_save":                 "STAYBOOK_INGEST_AUTO_SAVE",
		"ingest.archive_uploads":           "STAYBOOK_INGEST_ARCHIVE_UPLOADS",
		"ingest.review_confidence":         "STAYBOOK_INGEST_REVIEW_CONFIDENCE",
		"ingest.max_stay_nights":           "STAYBOOK_INGEST_MAX_STAY_NIGHTS",
		"ingest.include_extracted_text":    "STAYBOOK_INGEST_INCLUDE_EXTRACTED_TEXT",
		"resilience.requests_per_second":   "STAYBOOK_RESILIENCE_REQUESTS_PER_SECOND",
		"resilience.burst":                 "STAYBOOK_RESILIENCE_BURST",
		"resilience.breaker_enabled":       "STAYBOOK_RESILIENCE_BREAKER_ENABLED",
		"resilience.breaker_min_requests":  "STAYBOOK_RESILIENCE_BREAKER_MIN_REQUESTS",
		"resilience.breaker_failure_ratio": "STAYBOOK_RESILIENCE_BREAKER_FAILURE_RATIO",
		"resilience.breaker_open_timeout":  "STAYBOOK_RESILIENCE_BREAKER_OPEN_TIMEOUT",
		"notify.provider":                  "STAYBOOK_NOTIFY_PROVIDER",
		"notify.region":                    "STAYBOOK_NOTIFY_REGION",
		"notify.from_address":              "STAYBOOK_NOTIFY_FROM_ADDRESS",
		"notify.from_name":                 "STAYBOOK_NOTIFY_FROM_NAME",
		"notify.operator_address":          "STAYBOOK_NOTIFY_OPERATOR_ADDRESS",
		"metrics.enabled":                  "STAYBOOK_METRICS_ENABLED",
		"metrics.path":                     "STAYBOOK_METRICS_PATH",
		"parser.provider":                  "STAYBOOK_PARSER_PROVIDER",
		"parser.api_key":                   "STAYBOOK_PARSER_API_KEY",
		"parser.default_model":             "STAYBOOK_PARSER_DEFAULT_MODEL",
		"parser.vision_model":              "STAYBOOK_PARSER_VISION_MODEL",
		"parser.max_retries":               "STAYBOOK_PARSER_MAX_RETRIES",
		"parser.timeout_secs":              "STAYBOOK_PARSER_TIMEOUT_SECS",
	}
	for _, slot := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "vision_model", "max_retries", "timeout_secs"} {
			key := "parser." + slot + "." + field
			envBindings[key] = "STAYBOOK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if STAYBOOK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STAYBOOK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Ingest = IngestConfig{
		MaxFileSizeMB:        v.GetInt64("ingest.max_file_size_mb"),
		MaxFiles:             v.GetInt("ingest.max_files"),
		PersistConcurrency:   v.GetInt("ingest.persist_concurrency"),
		AutoSave:             v.GetBool("ingest.auto_save"),
		ArchiveUploads:       v.GetBool("ingest.archive_uploads"),
		ReviewConfidence:     v.GetFloat64("ingest.review_confidence"),
		MaxStayNights:        v.GetInt("ingest.max_stay_nights"),
		IncludeExtractedText: v.GetBool("ingest.include_extracted_text"),
	}

	cfg.Resilience = ResilienceConfig{
		RequestsPerSecond:   v.GetFloat64("resilience.requests_per_second"),
		Burst:               v.GetInt("resilience.burst"),
		BreakerEnabled:      v.GetBool("resilience.breaker_enabled"),
		BreakerMinRequests:  v.GetUint32("resilience.breaker_min_requests"),
		BreakerFailureRatio: v.GetFloat64("resilience.breaker_failure_ratio"),
		BreakerOpenTimeout:  v.GetDuration("resilience.breaker_open_timeout"),
	}

	cfg.Notify = NotifyConfig{
		Provider:        v.GetString("notify.provider"),
		Region:          v.GetString("notify.region"),
		FromAddress:     v.GetString("notify.from_address"),
		FromName:        v.GetString("notify.from_name"),
		OperatorAddress: v.GetString("notify.operator_address"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
		Path:    v.GetString("metrics.path"),
	}

	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		VisionModel:  v.GetString("parser.vision_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Primary:      loadProvider(v, "primary"),
		Secondary:    loadProvider(v, "secondary"),
		Tertiary:     loadProvider(v, "tertiary"),
	}

	if cfg.Ingest.MaxFiles <= 0 {
		return nil, fmt.Errorf("ingest.max_files must be positive, got %d", cfg.Ingest.MaxFiles)
	}
	if cfg.Ingest.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("ingest.max_file_size_mb must be positive, got %d", cfg.Ingest.MaxFileSizeMB)
	}

	return cfg, nil
}

func loadProvider(v *viper.Viper, slot string) ParserProviderConfig {
	prefix := "parser." + slot + "."
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + "provider"),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		VisionModel:  v.GetString(prefix + "vision_model"),
		MaxRetries:   v.GetInt(prefix + "max_retries"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
	}
}
