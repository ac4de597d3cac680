// internal/workers/profile/update-style-profile/config.go
package updatestyleprofile

import "time"

type Config struct {
	Timeout         time.Duration
	CreateIfMissing bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		CreateIfMissing: true,
	}
}
