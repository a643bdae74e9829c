package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func TestDefaults(t *testing.T) {
	c, err := parseMap(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3001", c.Addr())
	assert.Equal(t, "api-here", c.APIKey)
	assert.Equal(t, "http://localhost:3000", c.FrontendURL)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.DBPath)
	assert.Zero(t, c.MaxSessions)
	assert.Zero(t, c.SessionIdleTTL)
	assert.Equal(t, time.Minute, c.SweepInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestOverrides(t *testing.T) {
	c, err := parseMap(map[string]string{
		"HOST":             "127.0.0.1",
		"PORT":             "8080",
		"API_KEY":          "secret",
		"DB_PATH":          "./data/pegs.db",
		"MAX_SESSIONS":     "1000",
		"SESSION_IDLE_TTL": "30m",
		"SWEEP_INTERVAL":   "10s",
	})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", c.Addr())
	assert.Equal(t, "secret", c.APIKey)
	assert.Equal(t, "./data/pegs.db", c.DBPath)
	assert.Equal(t, 1000, c.MaxSessions)
	assert.Equal(t, 30*time.Minute, c.SessionIdleTTL)
	assert.Equal(t, 10*time.Second, c.SweepInterval)
}

func TestInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":      {"SESSION_IDLE_TTL": "soon"},
		"bad int":           {"MAX_SESSIONS": "many"},
		"negative sessions": {"MAX_SESSIONS": "-1"},
		"negative ttl":      {"SESSION_IDLE_TTL": "-1s"},
		"no sweep":          {"SESSION_IDLE_TTL": "1m", "SWEEP_INTERVAL": "0s"},
		"no timeout":        {"REQUEST_TIMEOUT": "0s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseMap(vars)
			assert.Error(t, err)
		})
	}
}
