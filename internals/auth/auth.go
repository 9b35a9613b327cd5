package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
	"github.com/Thepathakarpit/stocksfafo-sub001/pkg/kvstore"
)

var (
	ErrMissingFields      = errors.New("email, password and name are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	Users    users.Store
	Sessions *SessionRegistry
}

func New(store users.Store, kv kvstore.KVStore) *AuthService {
	return &AuthService{
		Users:    store,
		Sessions: NewSessionRegistry(kv),
	}
}

// Register creates the user with a seeded portfolio and logs them in.
func (a *AuthService) Register(ctx context.Context, body RegisterRequestBody) (*users.User, string, error) {
	if body.Email == "" || body.Password == "" || body.Name == "" {
		return nil, "", ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := users.New(body.Email, string(hash), body.Name)
	if err := a.Users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := a.Sessions.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the password and issues a fresh token. Unknown emails
// and wrong passwords both come back as ErrInvalidCredentials.
func (a *AuthService) Login(ctx context.Context, body LoginRequestBody) (*users.User, string, error) {
	user, err := a.Users.GetByEmail(ctx, body.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.Sessions.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Resolve maps a bearer token back to the user id it was issued to.
func (a *AuthService) Resolve(token string) (string, error) {
	return a.Sessions.Resolve(token)
}
