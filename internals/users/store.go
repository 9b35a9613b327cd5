package users

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound   = errors.New("users: user not found")
	ErrEmailTaken = errors.New("users: email already registered")
)

// Store owns the user records. Handlers receive one by injection instead
// of reaching for package-level state.
//
// Update is the only way to mutate a user. Implementations serialize
// updates per user id, apply mutate to a private copy, persist, and only
// then publish the copy. A failed persist leaves both memory and the
// caller-visible state untouched, and two concurrent trades on the same
// portfolio cannot lose updates.
type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, mutate func(*User) error) (*User, error)
	All(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int, error)
}

// locker hands out one mutex per user id.
type locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *locker) forUser(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
