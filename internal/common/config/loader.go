// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml and applies env overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // environment overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known env names when the file left them blank.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.AI.Gemini.APIKey, "GEMINI_API_KEY", "GENAI_API_KEY")
	setIfEmpty(&cfg.AI.REST.APIKey, "GENAI_API_KEY")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Advice.Token, "ADVICE_READ_TOKEN")
}

func setIfEmpty(dst *string, envNames ...string) {
	if *dst != "" {
		return
	}
	for _, name := range envNames {
		if val := os.Getenv(name); val != "" {
			*dst = val
			return
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "stylist-workers"
	}
	if cfg.App.HealthPort == 0 {
		cfg.App.HealthPort = 8080
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.ProfileTTL == 0 {
		cfg.Database.Redis.ProfileTTL = 300000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Workers == nil {
		cfg.Workers = map[string]WorkerConfig{}
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 45000
	}
	if cfg.AI.MaxRetries == 0 {
		cfg.AI.MaxRetries = 2
	}
	if cfg.AI.RetryDelay == 0 {
		cfg.AI.RetryDelay = 2000
	}
	if cfg.AI.Gemini.Model == "" {
		cfg.AI.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.AI.Gemini.Temperature == 0 {
		cfg.AI.Gemini.Temperature = 0.7
	}

	if cfg.Locale.WeatherBaseURL == "" {
		cfg.Locale.WeatherBaseURL = "https://api.open-meteo.com"
	}
	if cfg.Locale.GeocoderBaseURL == "" {
		cfg.Locale.GeocoderBaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Locale.UserAgent == "" {
		cfg.Locale.UserAgent = cfg.App.Name
	}
	if cfg.Locale.HTTPTimeout == 0 {
		cfg.Locale.HTTPTimeout = 5000
	}
	if cfg.Locale.WeatherTTL == 0 {
		cfg.Locale.WeatherTTL = 600000
	}
	if cfg.Locale.TopographyTTL == 0 {
		cfg.Locale.TopographyTTL = 3600000
	}
	if cfg.Locale.CacheBackend == "" {
		cfg.Locale.CacheBackend = "memory"
	}

	if cfg.Advice.Source == "" {
		cfg.Advice.Source = "http"
	}
	if cfg.Advice.Index == "" {
		cfg.Advice.Index = "style-advice"
	}

	if cfg.Styling.OutfitCount == 0 {
		cfg.Styling.OutfitCount = 3
	}
	if cfg.Styling.OutfitGenderPolicy == "" {
		cfg.Styling.OutfitGenderPolicy = "profile-first"
	}
	if cfg.Styling.AdviceGenderPolicy == "" {
		cfg.Styling.AdviceGenderPolicy = "category-first"
	}
	if cfg.Styling.ImageMaxBytes == 0 {
		cfg.Styling.ImageMaxBytes = 8 << 20
	}

	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/activity-registry.json"
	}
	if !filepath.IsAbs(cfg.Registry.Path) {
		if _, err := os.Stat(cfg.Registry.Path); err != nil {
			if root := findProjectRoot(); root != "" {
				cfg.Registry.Path = filepath.Join(root, cfg.Registry.Path)
			}
		}
	}
}

var validate = validator.New()

// validateConfig runs struct tag validation and then the cross-field rules.
func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case "sqlite":
		if cfg.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
	}

	if cfg.Locale.CacheBackend == "redis" && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required for the redis locale cache")
	}

	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.Gemini.APIKey == "" {
			return fmt.Errorf("ai.gemini.api_key is required")
		}
	case "rest":
		if cfg.AI.REST.BaseURL == "" {
			return fmt.Errorf("ai.rest.base_url is required")
		}
	}

	switch cfg.Advice.Source {
	case "http":
		if cfg.Advice.URL == "" {
			return fmt.Errorf("advice.url is required for the http source")
		}
	case "s3":
		if cfg.Advice.Bucket == "" || cfg.Advice.Key == "" {
			return fmt.Errorf("advice.bucket and advice.key are required for the s3 source")
		}
	case "elasticsearch":
		if len(cfg.Database.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("database.elasticsearch.addresses is required for the elasticsearch source")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
