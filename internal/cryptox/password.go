// Package cryptox implements the password key-derivation scheme used by the
// credential store: salted PBKDF2-HMAC-SHA256 derivation and constant-time
// verification. Plaintext passwords are never persisted; only the derived
// key (the verifier) and its salt are stored, both hex-encoded.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/agentaitrip/tripvault/internal/common"
)

const (
	// SaltSize is the number of random bytes in a freshly generated salt.
	SaltSize = 16

	// KeySize is the derived-key length, equal to the SHA-256 digest size.
	KeySize = sha256.Size

	// DefaultIterations balances brute-force resistance against login
	// latency. Treat it as a tunable tied to measured hardware cost, not a
	// constant; deployments override it via config.
	DefaultIterations = 200_000
)

// HashPassword derives a key from password with PBKDF2-HMAC-SHA256 and
// returns the derived key and the salt, both hex-encoded. If salt is nil a
// fresh SaltSize-byte salt is drawn from the system CSPRNG. Iterations
// values below 1 fall back to DefaultIterations.
//
// The derivation is deterministic for a fixed (password, salt, iterations)
// triple; verification relies on that.
func HashPassword(password string, salt []byte, iterations int) (hashHex, saltHex string) {
	if salt == nil {
		salt = common.GenerateRandByteArray(SaltSize)
	}
	if iterations < 1 {
		iterations = DefaultIterations
	}
	dk := pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)
	return hex.EncodeToString(dk), hex.EncodeToString(salt)
}

// VerifyPassword re-derives a key from candidate with the stored salt and
// compares it to the stored hash in constant time. A wrong password is a
// normal negative result (false, nil), never an error.
//
// A stored salt or hash that is not valid hex of the expected length yields
// common.ErrMalformedRecord: that is data corruption, not a bad credential,
// and callers log it distinctly.
func VerifyPassword(storedHashHex, storedSaltHex, candidate string, iterations int) (bool, error) {
	salt, err := hex.DecodeString(storedSaltHex)
	if err != nil {
		return false, fmt.Errorf("%w: bad salt: %v", common.ErrMalformedRecord, err)
	}
	if len(salt) != SaltSize {
		return false, fmt.Errorf("%w: salt length %d", common.ErrMalformedRecord, len(salt))
	}
	stored, err := hex.DecodeString(storedHashHex)
	if err != nil {
		return false, fmt.Errorf("%w: bad hash: %v", common.ErrMalformedRecord, err)
	}
	if len(stored) != KeySize {
		return false, fmt.Errorf("%w: hash length %d", common.ErrMalformedRecord, len(stored))
	}
	if iterations < 1 {
		iterations = DefaultIterations
	}
	dk := pbkdf2.Key([]byte(candidate), salt, iterations, KeySize, sha256.New)
	return subtle.ConstantTimeCompare(dk, stored) == 1, nil
}
