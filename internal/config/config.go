// internal/config/config.go
//
// Process configuration read from the environment (after main has loaded
// any .env file).
//
//	HOST, PORT          listen address (default 0.0.0.0:3001)
//	API_KEY             shared key required on /api/game* routes
//	FRONTEND_URL        single CORS origin
//	LOG_LEVEL           zerolog level name
//	DB_PATH             SQLite file for finished-game results; empty disables
//	MAX_SESSIONS        evict least recently used games beyond this many; 0 = unbounded
//	SESSION_IDLE_TTL    drop games idle this long; 0 = never
//	SWEEP_INTERVAL      how often idle games are swept
//	REQUEST_TIMEOUT     per-request handler bound

package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Host           string        `env:"HOST" envDefault:"0.0.0.0"`
	Port           string        `env:"PORT" envDefault:"3001"`
	APIKey         string        `env:"API_KEY" envDefault:"api-here"`
	FrontendURL    string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	DBPath         string        `env:"DB_PATH"`
	MaxSessions    int           `env:"MAX_SESSIONS" envDefault:"0"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"0s"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load parses the process environment.
func Load() (Config, error) { return parse(env.Options{}) }

func parse(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch {
	case c.APIKey == "":
		return errors.New("API_KEY must not be empty")
	case c.MaxSessions < 0:
		return errors.New("MAX_SESSIONS must be >= 0")
	case c.SessionIdleTTL < 0:
		return errors.New("SESSION_IDLE_TTL must be >= 0")
	case c.SessionIdleTTL > 0 && c.SweepInterval <= 0:
		return errors.New("SWEEP_INTERVAL must be > 0 when SESSION_IDLE_TTL is set")
	case c.RequestTimeout <= 0:
		return errors.New("REQUEST_TIMEOUT must be > 0")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string { return net.JoinHostPort(c.Host, c.Port) }
