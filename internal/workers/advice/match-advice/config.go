// internal/workers/advice/match-advice/config.go
package matchadvice

import (
	"time"

	"stylist-workers/internal/styling/category"
)

type Config struct {
	Timeout      time.Duration
	GenderPolicy category.GenderPolicy
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		GenderPolicy: category.CategoryFirst,
	}
}
