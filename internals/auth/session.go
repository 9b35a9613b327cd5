package auth

import (
	"errors"
	"strconv"
	"time"

	"golang.org/x/exp/rand"

	"github.com/Thepathakarpit/stocksfafo-sub001/pkg/kvstore"
)

// ErrUnauthenticated means a token has no live session behind it.
var ErrUnauthenticated = errors.New("unauthenticated")

const sessionPrefix = "session_"

// SessionRegistry maps opaque bearer tokens to user IDs. Tokens never
// expire and there is no revocation; with the in-memory KV backend
// every session is lost on restart.
type SessionRegistry struct {
	KV kvstore.KVStore
}

func NewSessionRegistry(kv kvstore.KVStore) *SessionRegistry {
	return &SessionRegistry{KV: kv}
}

// IssueToken records a fresh token for the user and returns it.
func (s *SessionRegistry) IssueToken(userID string) (string, error) {
	token := newToken()
	if err := s.KV.Set(sessionPrefix+token, userID); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user ID the token was issued to.
func (s *SessionRegistry) Resolve(token string) (string, error) {
	userID, err := s.KV.Get(sessionPrefix + token)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	return userID, nil
}

// newToken builds a random base-36 fragment plus the current time in
// base 36. Probabilistically unique, nothing stronger.
func newToken() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	rand.Seed(uint64(time.Now().UnixNano()))
	b := make([]byte, 24)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b) + strconv.FormatInt(time.Now().UnixNano(), 36)
}
