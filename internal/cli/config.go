package cli

import (
	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration. Flags override the environment.
type Config struct {
	ServerURL string `env:"DOMBOT_SERVER"    envDefault:"http://localhost:8080"`
	Token     string `env:"DOMBOT_API_TOKEN"`
	Output    string `env:"DOMBOT_OUTPUT"    envDefault:"text"`
	Verbose   bool   `env:"DOMBOT_VERBOSE"`
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
