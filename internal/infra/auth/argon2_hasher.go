// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"authapi/config"
	"authapi/internal/domain/service"
	"authapi/internal/errors"

	"golang.org/x/crypto/argon2"
)

const argon2Algorithm = "argon2id"

// OWASP-recommended argon2id parameters.
var defaultArgon2Params = Argon2Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2Params controls the cost of a single argon2id derivation.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// argon2Hasher is a concrete implementation of the PasswordHasher interface using argon2id.
type argon2Hasher struct {
	params Argon2Params
}

// NewArgon2Hasher is the constructor for argon2Hasher.
// Zero values in the configuration fall back to the defaults.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	params := defaultArgon2Params
	if cfg != nil && cfg.Auth != nil && cfg.Auth.Argon2 != nil {
		params = mergeArgon2Params(params, cfg.Auth.Argon2)
	}

	return NewArgon2HasherWithParams(params)
}

// NewArgon2HasherWithParams creates a hasher with explicit parameters.
func NewArgon2HasherWithParams(params Argon2Params) service.PasswordHasher {
	return &argon2Hasher{params: params}
}

func mergeArgon2Params(base Argon2Params, override *config.Argon2Config) Argon2Params {
	if override.Memory > 0 {
		base.Memory = override.Memory
	}
	if override.Iterations > 0 {
		base.Iterations = override.Iterations
	}
	if override.Parallelism > 0 {
		base.Parallelism = override.Parallelism
	}
	if override.SaltLength > 0 {
		base.SaltLength = override.SaltLength
	}
	if override.KeyLength > 0 {
		base.KeyLength = override.KeyLength
	}

	return base
}

// Hash derives an argon2id key from the password with a fresh random salt and
// encodes it in PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Algorithm,
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Check recomputes the key with the parameters stored in the hash and compares in constant time.
func (h *argon2Hasher) Check(password, hash string) bool {
	params, salt, expected, err := decodeArgon2Hash(hash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func decodeArgon2Hash(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return params, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != argon2Algorithm {
		return params, nil, nil, errors.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash version")
	}
	if version != argon2.Version {
		return params, nil, nil, errors.Errorf("unsupported argon2 version: %d", version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &threads); err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash parameters")
	}
	if threads == 0 || threads > 255 {
		return params, nil, nil, errors.Errorf("invalid parallelism: %d", threads)
	}
	params.Parallelism = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, errors.Wrap(err, "invalid hash key")
	}
	if len(key) == 0 || len(key) > 1<<10 {
		return params, nil, nil, errors.Errorf("invalid key length: %d", len(key))
	}
	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
