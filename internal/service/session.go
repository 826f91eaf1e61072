package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/openvault/filevault/internal/cache"
)

var ErrSessionNotFound = errors.New("session not found")

// sessionKeyPrefix namespaces session entries inside the shared cache.
const sessionKeyPrefix = "auth_"

// SessionService issues, resolves and revokes bearer tokens against the
// TTL cache. Expiry is handled entirely by cache eviction; there is no
// renewal.
type SessionService struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionService(c *cache.Cache, ttl time.Duration) *SessionService {
	return &SessionService{cache: c, ttl: ttl}
}

// Issue generates a fresh random token and maps it to userID for the
// session lifetime. Two sessions for the same user are independent.
func (s *SessionService) Issue(userID string) (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	token := hex.EncodeToString(bytes)

	err = s.cache.SetWithTTL(sessionKeyPrefix+token, userID, s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Resolve returns the user id a live token maps to. Absent or expired
// tokens resolve to ErrSessionNotFound.
func (s *SessionService) Resolve(token string) (string, error) {
	userID, err := s.cache.Get(sessionKeyPrefix + token)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// Revoke deletes the token mapping. Revoking an absent token is a no-op.
func (s *SessionService) Revoke(token string) error {
	return s.cache.Delete(sessionKeyPrefix + token)
}
