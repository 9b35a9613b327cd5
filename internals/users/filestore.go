package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileUser is the on-disk record. The blob keeps the password hash, which
// User deliberately elides from its own JSON.
type fileUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Portfolio Portfolio `json:"portfolio"`
}

// FileStore keeps every user in memory and rewrites a single JSON array
// on each mutation. Writes go through a temp file and rename so a crash
// mid-write cannot corrupt the blob.
type FileStore struct {
	path string

	mu    sync.RWMutex
	users map[string]*User
	order []string // registration order, also the blob order

	locks locker
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		users: make(map[string]*User),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read user store: %w", err)
	}

	var records []fileUser
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse user store: %w", err)
	}

	for _, rec := range records {
		u := &User{
			ID:        rec.ID,
			Email:     rec.Email,
			Password:  rec.Password,
			Name:      rec.Name,
			Portfolio: rec.Portfolio.Clone(),
		}
		if u.Portfolio.Holdings == nil {
			u.Portfolio.Holdings = []Holding{}
		}
		if u.Portfolio.Transactions == nil {
			u.Portfolio.Transactions = []Transaction{}
		}
		s.users[u.ID] = u
		s.order = append(s.order, u.ID)
	}
	return nil
}

// persistLocked rewrites the whole blob. Callers must hold s.mu.
func (s *FileStore) persistLocked() error {
	records := make([]fileUser, 0, len(s.order))
	for _, id := range s.order {
		u := s.users[id]
		records = append(records, fileUser{
			ID:        u.ID,
			Email:     u.Email,
			Password:  u.Password,
			Name:      u.Name,
			Portfolio: u.Portfolio,
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "users-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close user store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace user store: %w", err)
	}
	return nil
}

func (s *FileStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}

	s.users[u.ID] = u.Clone()
	s.order = append(s.order, u.ID)

	if err := s.persistLocked(); err != nil {
		delete(s.users, u.ID)
		s.order = s.order[:len(s.order)-1]
		return err
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *FileStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Update(_ context.Context, id string, mutate func(*User) error) (*User, error) {
	lock := s.locks.forUser(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	cur, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	next := cur.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.users[id] = next
	if err := s.persistLocked(); err != nil {
		s.users[id] = cur
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	return next.Clone(), nil
}

func (s *FileStore) All(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id].Clone())
	}
	return out, nil
}

func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
