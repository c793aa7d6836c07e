package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func testKVRoundTrip(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "tt-2-2024"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := kv.Put(ctx, "tt-2-2024", `{"2024-02-01":"1"}`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := kv.Get(ctx, "tt-2-2024")
	if err != nil || !ok || v != `{"2024-02-01":"1"}` {
		t.Fatalf("round trip: %q ok=%v err=%v", v, ok, err)
	}

	// Overwrite wins
	if err := kv.Put(ctx, "tt-2-2024", `{"2024-02-01":"0.5"}`); err != nil {
		t.Fatal(err)
	}
	v, _, _ = kv.Get(ctx, "tt-2-2024")
	if v != `{"2024-02-01":"0.5"}` {
		t.Fatalf("overwrite lost: %q", v)
	}

	// Keys are independent
	if err := kv.Put(ctx, "contactData", `{"devName":"Ada"}`); err != nil {
		t.Fatal(err)
	}
	v, _, _ = kv.Get(ctx, "tt-2-2024")
	if v != `{"2024-02-01":"0.5"}` {
		t.Fatalf("unrelated put clobbered key: %q", v)
	}
}

func TestMemoryStore(t *testing.T) {
	testKVRoundTrip(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cra.db")
	kv, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	testKVRoundTrip(t, kv)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cra.db")

	kv, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, "tt-3-2025", `{"2025-03-01":"0"}`); err != nil {
		t.Fatal(err)
	}
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	kv, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	v, ok, err := kv.Get(ctx, "tt-3-2025")
	if err != nil || !ok || v != `{"2025-03-01":"0"}` {
		t.Fatalf("reload after reopen: %q ok=%v err=%v", v, ok, err)
	}
}
