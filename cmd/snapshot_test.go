package cmd

import (
	"path/filepath"
	"testing"

	"github.com/MurthyAvanithsa/railview/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "railview.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestFindSnapshotByFullID(t *testing.T) {
	st := openTestStore(t)
	snap := store.NewSnapshot("phone-hero", "hero", "layout project hero --width 390")
	if err := st.PutSnapshot(snap); err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}

	got, ok, err := findSnapshot(st, snap.ID)
	if err != nil || !ok {
		t.Fatalf("expected snapshot found, ok=%v err=%v", ok, err)
	}
	if got.Name != "phone-hero" {
		t.Fatalf("wrong snapshot: %+v", got)
	}
}

func TestFindSnapshotByPrefix(t *testing.T) {
	st := openTestStore(t)
	snap := store.NewSnapshot("tv-rail", "rail", "layout preview rail --width 1920")
	if err := st.PutSnapshot(snap); err != nil {
		t.Fatalf("saving snapshot: %v", err)
	}

	got, ok, err := findSnapshot(st, snap.ID[:8])
	if err != nil || !ok {
		t.Fatalf("expected prefix match, ok=%v err=%v", ok, err)
	}
	if got.ID != snap.ID {
		t.Fatalf("prefix resolved to wrong snapshot: %s", got.ID)
	}
}

func TestFindSnapshotAmbiguousPrefix(t *testing.T) {
	st := openTestStore(t)
	for i := 0; i < 2; i++ {
		snap := store.NewSnapshot("dup", "hero", "style list")
		// Force a shared prefix so the lookup has to report ambiguity.
		snap.ID = "aaaaaaaa-" + snap.ID
		if err := st.PutSnapshot(snap); err != nil {
			t.Fatalf("saving snapshot: %v", err)
		}
	}

	_, ok, err := findSnapshot(st, "aaaaaaaa")
	if ok {
		t.Fatal("ambiguous prefix should not resolve")
	}
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
}

func TestFindSnapshotMissing(t *testing.T) {
	st := openTestStore(t)
	_, ok, err := findSnapshot(st, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
}
