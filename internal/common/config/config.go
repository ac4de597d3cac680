// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Storage  StorageConfig           `mapstructure:"storage"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	AI       AIConfig                `mapstructure:"ai"`
	Locale   LocaleConfig            `mapstructure:"locale"`
	Advice   AdviceConfig            `mapstructure:"advice"`
	Styling  StylingConfig           `mapstructure:"styling"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Registry RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development test staging production"`
	HealthPort  int    `mapstructure:"health_port" validate:"gte=0,lte=65535"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address" validate:"required"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	// Driver selects the profile store backend: "postgres" or "sqlite".
	Driver        string              `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	SQLite        SQLiteConfig        `mapstructure:"sqlite"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// ProfileTTL is the profile read-through cache lifetime in milliseconds.
	ProfileTTL int `mapstructure:"profile_ttl"`
}

type StorageConfig struct {
	S3 struct {
		Region   string `mapstructure:"region"`
		Endpoint string `mapstructure:"endpoint"`
	} `mapstructure:"s3"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// AIConfig selects and tunes the generative provider behind the gateway.
type AIConfig struct {
	Provider    string   `mapstructure:"provider" validate:"oneof=gemini rest"`
	Timeout     int      `mapstructure:"timeout"`     // milliseconds, per attempt
	MaxRetries  int      `mapstructure:"max_retries"` // busy-response retries
	RetryDelay  int      `mapstructure:"retry_delay"` // milliseconds
	BusyPhrases []string `mapstructure:"busy_phrases"`

	Gemini struct {
		APIKey      string  `mapstructure:"api_key"`
		Model       string  `mapstructure:"model"`
		Temperature float32 `mapstructure:"temperature"`
	} `mapstructure:"gemini"`

	REST struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
	} `mapstructure:"rest"`
}

// LocaleConfig covers weather and topography resolution.
type LocaleConfig struct {
	WeatherBaseURL  string `mapstructure:"weather_base_url" validate:"omitempty,url"`
	GeocoderBaseURL string `mapstructure:"geocoder_base_url" validate:"omitempty,url"`
	UserAgent       string `mapstructure:"user_agent"`
	HTTPTimeout     int    `mapstructure:"http_timeout"`   // milliseconds
	WeatherTTL      int    `mapstructure:"weather_ttl"`    // milliseconds
	TopographyTTL   int    `mapstructure:"topography_ttl"` // milliseconds
	CacheBackend    string `mapstructure:"cache_backend" validate:"oneof=memory redis"`
}

// AdviceConfig points the advice catalog at its dataset.
type AdviceConfig struct {
	Source         string `mapstructure:"source" validate:"oneof=http s3 elasticsearch"`
	URL            string `mapstructure:"url"`
	Token          string `mapstructure:"token"`
	Bucket         string `mapstructure:"bucket"`
	Key            string `mapstructure:"key"`
	Index          string `mapstructure:"index"`
	ReloadInterval int    `mapstructure:"reload_interval"` // milliseconds, 0 disables
}

// StylingConfig holds recommendation policy knobs.
type StylingConfig struct {
	OutfitCount        int    `mapstructure:"outfit_count" validate:"gte=0,lte=10"`
	OutfitGenderPolicy string `mapstructure:"outfit_gender_policy" validate:"omitempty,oneof=profile-first category-first"`
	AdviceGenderPolicy string `mapstructure:"advice_gender_policy" validate:"omitempty,oneof=profile-first category-first"`
	ImageMaxBytes      int64  `mapstructure:"image_max_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	Output string `mapstructure:"output"`
}

// RegistryConfig locates the activity registry describing the task types.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
