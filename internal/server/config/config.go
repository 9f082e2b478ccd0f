package config

import (
	"os"
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "AUTHAPP_SERVER_"

// Config holds runtime settings for the reference API server.
//
// SecretKey signs the HS256 tokens. When it is empty a random key is made at
// startup, so tokens do not survive a restart.
type Config struct {
	Addr            string        `env:"ADDR"`
	SecretKey       string        `env:"SECRET_KEY"`
	TokenTTL        time.Duration `env:"TOKEN_TTL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.SecretKey = ""
	c.TokenTTL = 24 * time.Hour
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then the optional config
// file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
