// Package kv is the durable key-value storage used for account and session
// records. Values are opaque bytes; callers store JSON.
//
// Two backends implement Store: the SQLite repository (default, a single
// file next to the binary) and Redis (see kv/redis). Both are durable across
// process restarts.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a durable string-keyed blob store.
//
// Get reports found=false (and a nil error) for an absent key.
// Delete of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Namespace returns a Store whose keys are prefixed with prefix.
// It is how one client's keys are kept apart from another's.
func Namespace(s Store, prefix string) Store {
	return &namespaced{inner: s, prefix: prefix}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Ping(ctx context.Context) error {
	return n.inner.Ping(ctx)
}

// GetJSON decodes the value at key into dst. It reports false when the key
// is absent, leaving dst untouched.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("kv: decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
