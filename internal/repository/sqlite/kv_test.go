package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestDB returns a fresh in-memory database that is closed when the test ends.
// t.Helper() makes failures point at the caller's line.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKV_GetMissing(t *testing.T) {
	db := newTestDB(t)

	value, found, err := db.Get(context.Background(), "loving_homes_users")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Errorf("Get() found = true for a key never written (value %q)", value)
	}
}

func TestKV_SetOverwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "k", []byte("first")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Set(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	value, found, err := db.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false after Set")
	}
	if string(value) != "second" {
		t.Errorf("Get() = %q, want %q", value, "second")
	}
}

func TestKV_DeleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := db.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete() #%d error = %v", i+1, err)
		}
	}

	if _, found, _ := db.Get(ctx, "k"); found {
		t.Error("key still present after Delete")
	}
}

// TestKV_SurvivesReopen is the "reload" property: a value written by one
// process is visible to the next one that opens the same file.
func TestKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lovinghomes.db")
	ctx := context.Background()

	first, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.Set(ctx, "loving_homes_current_user", []byte(`{"name":"Alex"}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	value, found, err := second.Get(ctx, "loving_homes_current_user")
	if err != nil || !found {
		t.Fatalf("Get() after reopen = (%q, %v, %v)", value, found, err)
	}
	if string(value) != `{"name":"Alex"}` {
		t.Errorf("Get() after reopen = %q", value)
	}
}
