// internal/workers/outfits/analyze-twinning/config.go
package analyzetwinning

import "time"

type Config struct {
	Timeout       time.Duration
	ImageMaxBytes int64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       90 * time.Second,
		ImageMaxBytes: 5 << 20,
	}
}
