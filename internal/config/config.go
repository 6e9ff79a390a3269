package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	GCS        GCSConfig
	OCR        OCRConfig
	Structurer StructurerConfig
	Archive    ArchiveConfig
	Output     OutputConfig
	Batch      BatchConfig
	Auth       AuthConfig
	Email      EmailConfig
	Log        LogConfig
	CORS       CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings. An empty host disables
// persistence (CLI runs without a database).
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

// Enabled reports whether a database is configured.
func (d *DBConfig) Enabled() bool { return d.Host != "" }

// JWTConfig holds token signing settings for the API-key exchange endpoint.
type JWTConfig struct {
	Secret       string        `mapstructure:"secret"`
	AccessExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer       string        `mapstructure:"issuer"`
}

// GCSConfig holds the Google Cloud Storage bucket used for uploaded faxes and
// OCR output artifacts.
type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// OCRConfig holds Vision OCR settings.
type OCRConfig struct {
	TimeoutSecs      int `mapstructure:"timeout_secs"`
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
}

// Timeout returns the OCR completion timeout.
func (o *OCRConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// PollInterval returns the base interval for polling the OCR output artifact.
func (o *OCRConfig) PollInterval() time.Duration {
	return time.Duration(o.PollIntervalSecs) * time.Second
}

// StructurerProviderConfig holds settings for a single structuring provider.
type StructurerProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// StructurerConfig holds structuring service settings with multi-provider
// fallback support.
type StructurerConfig struct {
	// Flat fields configure the primary provider when the nested blocks are
	// not set.
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   StructurerProviderConfig `mapstructure:"primary"`
	Secondary StructurerProviderConfig `mapstructure:"secondary"`
	Tertiary  StructurerProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to the flat
// fields.
func (s *StructurerConfig) PrimaryConfig() *StructurerProviderConfig {
	if s.Primary.Provider != "" {
		return &s.Primary
	}
	return &StructurerProviderConfig{
		Provider:     s.Provider,
		APIKey:       s.APIKey,
		DefaultModel: s.DefaultModel,
		TimeoutSecs:  s.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not set.
func (s *StructurerConfig) SecondaryConfig() *StructurerProviderConfig {
	if s.Secondary.Provider != "" {
		return &s.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not set.
func (s *StructurerConfig) TertiaryConfig() *StructurerProviderConfig {
	if s.Tertiary.Provider != "" {
		return &s.Tertiary
	}
	return nil
}

// ArchiveConfig holds the optional S3 bucket that finalized bundles are
// archived to. An empty bucket disables archiving.
type ArchiveConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Enabled reports whether archiving is configured.
func (a *ArchiveConfig) Enabled() bool { return a.Bucket != "" }

// OutputConfig holds local output settings.
type OutputConfig struct {
	Dir           string `mapstructure:"dir"`
	StoreData     bool   `mapstructure:"store_data"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// APIKeyConfig is one configured integration partner key. Key may be either
// the plaintext key or a bcrypt hash of it ("$2..." prefix).
type APIKeyConfig struct {
	Key       string
	Name      string
	StoreData bool
}

// AuthConfig holds API-key authentication settings. Keys are injected here at
// construction; there is no process-wide mutable key set.
type AuthConfig struct {
	// RawAPIKeys is a comma-separated list of key:name:store_data entries,
	// e.g. "dayton-1234:dayton:false,internal-dev:internal:true".
	RawAPIKeys string `mapstructure:"api_keys"`
	APIKeys    []APIKeyConfig
}

// EmailConfig holds review-notification settings.
type EmailConfig struct {
	Provider        string `mapstructure:"provider"`
	Region          string `mapstructure:"region"`
	FromAddress     string `mapstructure:"from_address"`
	FromName        string `mapstructure:"from_name"`
	ReviewRecipient string `mapstructure:"review_recipient"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParseAPIKeys parses the comma-separated key list. Malformed entries are
// rejected rather than silently skipped.
func ParseAPIKeys(raw string) ([]APIKeyConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var keys []APIKeyConfig
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid api key entry %q (want key:name:store_data)", entry)
		}
		store, err := parseBool(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid store_data flag in api key entry %q", entry)
		}
		keys = append(keys, APIKeyConfig{Key: parts[0], Name: parts[1], StoreData: store})
	}
	return keys, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %s", s)
}

// Load reads configuration from environment variables with the FAXFHIR_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAXFHIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults (host empty = persistence disabled)
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "faxfhir")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "faxfhir_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.issuer", "faxfhir")

	// GCS defaults
	v.SetDefault("gcs.bucket", "efax-docs-bucket")
	v.SetDefault("gcs.credentials_file", "")

	// OCR defaults
	v.SetDefault("ocr.timeout_secs", 120)
	v.SetDefault("ocr.poll_interval_secs", 1)

	// Structurer defaults (flat primary)
	v.SetDefault("structurer.provider", "claude")
	v.SetDefault("structurer.api_key", "")
	v.SetDefault("structurer.default_model", "")
	v.SetDefault("structurer.timeout_secs", 120)
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("structurer."+tier+".provider", "")
		v.SetDefault("structurer."+tier+".api_key", "")
		v.SetDefault("structurer."+tier+".default_model", "")
		v.SetDefault("structurer."+tier+".timeout_secs", 120)
	}

	// Archive defaults (bucket empty = disabled)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.endpoint", "")

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.store_data", false)
	v.SetDefault("output.max_file_size_mb", 50)

	// Batch defaults
	v.SetDefault("batch.concurrency", 3)

	// Auth defaults
	v.SetDefault("auth.api_keys", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@example.com")
	v.SetDefault("email.from_name", "Fax Intake")
	v.SetDefault("email.review_recipient", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// viper reads comma-separated env values as a single string
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	keys, err := ParseAPIKeys(cfg.Auth.RawAPIKeys)
	if err != nil {
		return nil, fmt.Errorf("parsing api keys: %w", err)
	}
	cfg.Auth.APIKeys = keys

	return &cfg, nil
}
