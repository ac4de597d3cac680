// internal/workers/feed/refresh-style-feed/config.go
package refreshstylefeed

import "time"

type Config struct {
	Timeout  time.Duration
	MaxCount int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  90 * time.Second,
		MaxCount: 10,
	}
}
