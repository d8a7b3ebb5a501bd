// Package cache is a small key/value cache abstraction used for read-heavy
// dashboard and feed queries. Values are stored JSON encoded.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
	ErrInvalidKey   = errors.New("invalid cache key")
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the cached value into value, which must be a pointer.
	// It returns ErrNotFound on a miss.
	Get(ctx context.Context, key string, value interface{}) error

	Delete(ctx context.Context, key string) error

	// Clear removes every key in the namespace and nothing else.
	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	CleanupInterval time.Duration

	RedisURL string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute * 5,
	}
}

// Encode turns value into the bytes stored under a key.
func Encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Join(ErrInvalidValue, err)
	}
	return data, nil
}

// Decode is the inverse of Encode.
func Decode(data []byte, value interface{}) error {
	switch v := value.(type) {
	case *[]byte:
		*v = append((*v)[:0], data...)
		return nil
	case *string:
		*v = string(data)
		return nil
	}
	if err := json.Unmarshal(data, value); err != nil {
		return errors.Join(ErrInvalidValue, err)
	}
	return nil
}

// Namespace prefixes every key written through Key.
const Namespace = "skilllink"

// Key joins parts into a namespaced cache key.
func Key(parts ...string) string {
	key := Namespace
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// Pattern matches every key in the namespace.
func Pattern() string {
	return Namespace + ":*"
}
