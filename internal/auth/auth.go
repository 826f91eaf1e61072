// Package auth implements credential parsing and password hashing.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var ErrMalformedHeader = errors.New("malformed authorization header")

// argon2id parameters, matching OWASP's first recommended configuration.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// ParseBasicAuth extracts the email and password from a Basic auth header.
// The scheme must be "Basic" (case-insensitive), the payload valid base64,
// and the decoded text must contain a single colon separator.
func ParseBasicAuth(header string) (email, password string, err error) {
	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return "", "", ErrMalformedHeader
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", ErrMalformedHeader
	}

	email, password, ok = strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", ErrMalformedHeader
	}

	return email, password, nil
}

// HashPassword derives a salted argon2id digest and encodes it as
// "argon2id$<base64 salt>$<base64 key>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	_, err := rand.Read(salt)
	if err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("argon2id$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword re-derives the digest with the stored salt and compares in
// constant time. Any malformed stored digest verifies as false.
func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != "argon2id" {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(got, want) == 1
}
