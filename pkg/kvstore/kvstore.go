package kvstore

import "errors"

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("kvstore: key not found")

type KVStore interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Delete(key string) error
}
