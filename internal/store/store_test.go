package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "typesymphony.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSetGetOverwrite(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "user"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, "user", `{"id":"1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "user", `{"id":"2"}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := st.Get(ctx, "user")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `{"id":"2"}` {
		t.Fatalf("unexpected value %q", v)
	}
}

func TestKeysDeleteClear(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, k := range []string{"users", "soundEnabled", "user"} {
		if err := st.Set(ctx, k, "x"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	keys, err := st.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 3 || keys[0] != "soundEnabled" || keys[1] != "user" || keys[2] != "users" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := st.Delete(ctx, "user"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "user"); ok {
		t.Fatalf("expected user deleted")
	}

	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	keys, err = st.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys after clear, got %v", keys)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typesymphony.db")
	ctx := context.Background()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set(ctx, "soundEnabled", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = st.Close() }()
	v, ok, err := st.Get(ctx, "soundEnabled")
	if err != nil || !ok || v != "true" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}
