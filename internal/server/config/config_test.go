package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentaitrip/tripvault/internal/cryptox"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"tripvault"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, "users.db", cfg.DatabaseDSN)
	assert.Equal(t, cryptox.DefaultIterations, cfg.PBKDF2Iterations)
	assert.Equal(t, int64(10), cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginRatePeriod)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoadConfig_Flags(t *testing.T) {
	withArgs(t, "-a", ":9090", "-d", "postgres://u:p@localhost/tripvault", "-t", "30", "-i", "100000", "-n", "5", "-p", "120")

	cfg := LoadConfig()

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@localhost/tripvault", cfg.DatabaseDSN)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 100000, cfg.PBKDF2Iterations)
	assert.Equal(t, int64(5), cfg.LoginRateLimit)
	assert.Equal(t, 2*time.Minute, cfg.LoginRatePeriod)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{
		"endpoint_addr_http": ":7070",
		"secret_key": "file-secret",
		"session_ttl": "2h",
		"login_rate_period": 30000000000
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "file-secret", cfg.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.LoginRatePeriod)
	// fields absent from the file keep their defaults
	assert.Equal(t, "users.db", cfg.DatabaseDSN)
}

func TestLoadConfig_FlagsBeatJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr_http": ":7070"}`), 0o600))

	withArgs(t, "-c", path, "-a", ":6060")

	cfg := LoadConfig()

	assert.Equal(t, ":6060", cfg.EndpointAddrHTTP)
}

func TestLoadConfig_MissingJsonPanics(t *testing.T) {
	withArgs(t, "-c", "/no/such/file.json")

	assert.Panics(t, func() { LoadConfig() })
}
