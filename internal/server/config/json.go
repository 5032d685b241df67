package config

import (
	"encoding/json"
	"os"

	"github.com/agentaitrip/tripvault/internal/flagx"
	"github.com/agentaitrip/tripvault/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Duration fields
// accept either strings like "15m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	SessionTTL                  timex.Duration `json:"session_ttl"`
	PBKDF2Iterations            int            `json:"pbkdf2_iterations"`
	LoginRateLimit              int64          `json:"login_rate_limit"`
	LoginRatePeriod             timex.Duration `json:"login_rate_period"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// Zero-valued fields in the file leave the corresponding Config fields
// untouched, so a partial file only overrides what it names. A missing or
// invalid file is a startup error and panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.PBKDF2Iterations != 0 {
		config.PBKDF2Iterations = c.PBKDF2Iterations
	}
	if c.LoginRateLimit != 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	if c.LoginRatePeriod.Duration != 0 {
		config.LoginRatePeriod = c.LoginRatePeriod.Duration
	}
}
