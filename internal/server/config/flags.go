package config

import (
	"flag"
	"os"
	"time"

	"github.com/agentaitrip/tripvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN (SQLite path or postgres:// URL)
//	-s string   token HMAC secret key
//	-t int      access token validity, minutes
//	-l int      session TTL, minutes
//	-i int      PBKDF2 iterations
//	-n int      login attempts allowed per period, per username
//	-p int      login attempt period, seconds
//
// Args are first filtered with flagx.FilterArgs so flags owned by other
// components are left alone.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-i", "-n", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	sessionTTL := fs.Int("l", int(config.SessionTTL.Minutes()), "session TTL (in minutes)")

	fs.IntVar(&config.PBKDF2Iterations, "i", config.PBKDF2Iterations, "PBKDF2 iterations")
	fs.Int64Var(&config.LoginRateLimit, "n", config.LoginRateLimit, "login attempts per period per username")
	loginRatePeriod := fs.Int("p", int(config.LoginRatePeriod.Seconds()), "login attempt period (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	config.LoginRatePeriod = time.Duration(*loginRatePeriod) * time.Second
}
