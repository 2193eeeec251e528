package kv_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovinghomes/site/internal/kv"
)

// mapStore is the smallest possible kv.Store, enough to exercise the helpers.
type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapStore) Ping(context.Context) error { return nil }

func TestNamespace_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	base := newMapStore()

	a := kv.Namespace(base, "client:a:")
	b := kv.Namespace(base, "client:b:")

	require.NoError(t, a.Set(ctx, "current", []byte("alice")))
	require.NoError(t, b.Set(ctx, "current", []byte("bob")))

	assert.Equal(t, []byte("alice"), base.data["client:a:current"])
	assert.Equal(t, []byte("bob"), base.data["client:b:current"])

	require.NoError(t, a.Delete(ctx, "current"))
	_, found, _ := a.Get(ctx, "current")
	assert.False(t, found)

	v, found, _ := b.Get(ctx, "current")
	assert.True(t, found)
	assert.Equal(t, "bob", string(v))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := newMapStore()

	type rec struct {
		Name string `json:"name"`
	}

	var got rec
	found, err := kv.GetJSON(ctx, s, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.SetJSON(ctx, s, "rec", rec{Name: "Biscuit"}))
	assert.JSONEq(t, `{"name":"Biscuit"}`, string(s.data["rec"]))

	found, err = kv.GetJSON(ctx, s, "rec", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Biscuit", got.Name)

	s.data["broken"] = []byte("{not json")
	_, err = kv.GetJSON(ctx, s, "broken", &got)
	assert.Error(t, err)
}
