// internal/workers/outfits/suggest-outfits/config.go
package suggestoutfits

import "time"

type Config struct {
	Timeout       time.Duration
	ImageMaxBytes int64
	MaxCount      int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       60 * time.Second,
		ImageMaxBytes: 5 << 20,
		MaxCount:      10,
	}
}
