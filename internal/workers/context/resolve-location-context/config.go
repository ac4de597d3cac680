// internal/workers/context/resolve-location-context/config.go
package resolvelocationcontext

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
