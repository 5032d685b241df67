// Package config handles configuration for the server component, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/agentaitrip/tripvault/internal/cryptox"
)

// Config holds runtime settings for the TripVault server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP API.
//   - DatabaseDSN: SQLite file path (default) or postgres:// DSN.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Do not use
//     test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of issued tokens.
//   - SessionTTL: lifetime of server-side sessions.
//   - PBKDF2Iterations: key-derivation cost. Tune to measured hardware;
//     changing it on an existing store invalidates stored verifiers.
//   - LoginRateLimit / LoginRatePeriod: per-username attempt budget.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	SessionTTL                  time.Duration
	PBKDF2Iterations            int
	LoginRateLimit              int64
	LoginRatePeriod             time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = "users.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.SessionTTL = 12 * time.Hour
	c.PBKDF2Iterations = cryptox.DefaultIterations
	c.LoginRateLimit = 10
	c.LoginRatePeriod = 1 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
