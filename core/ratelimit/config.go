package ratelimit

import "time"

// Config defines one endpoint's admission window.
type Config struct {
	// Window is the fixed window length.
	Window time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`
	// MaxRequests is the number of allowed requests per window.
	MaxRequests int `env:"RATELIMIT_MAX_REQUESTS" envDefault:"30"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Window <= 0 || c.MaxRequests <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
