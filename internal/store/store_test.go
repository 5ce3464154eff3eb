package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/store"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// testDB opens a fresh isolated database in t.TempDir().
// It is closed and deleted automatically when the test ends.
// This is the only pattern used — no test ever touches a real cache.
func testDB(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// makeSettings builds a minimal settings payload stamped at the given time.
func makeSettings(fetchedAt time.Time) model.CachedSettings {
	return model.CachedSettings{
		ListSettings: []model.ListPreset{
			{PresetName: "hero", TilesToShow: 3, IsBanner: true},
			{PresetName: "grid"},
		},
		CardStyles: []model.RawDescriptor{
			{"name": "hero", "cardStyle": map[string]any{"showTitle": true}},
		},
		FetchedAt: fetchedAt,
	}
}

// ─── Open / Path ──────────────────────────────────────────────────────────────

func TestOpenCreatesDB(t *testing.T) {
	s := testDB(t)
	if s.Path() == "" {
		t.Error("Path() should return the db path after open")
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open with nested path: %v", err)
	}
	defer s.Close()
	if s.Path() != path {
		t.Errorf("Path: expected %q, got %q", path, s.Path())
	}
}

// ─── Settings round-trip ──────────────────────────────────────────────────────

func TestGetSettingsEmpty(t *testing.T) {
	s := testDB(t)
	_, found, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if found {
		t.Error("fresh store should have no settings")
	}
}

func TestPutGetSettings(t *testing.T) {
	s := testDB(t)
	fetched := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := s.PutSettings(makeSettings(fetched)); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}

	got, found, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !found {
		t.Fatal("settings should be found after put")
	}
	if len(got.ListSettings) != 2 || got.ListSettings[0].PresetName != "hero" {
		t.Errorf("presets: got %+v", got.ListSettings)
	}
	if len(got.CardStyles) != 1 || got.CardStyles[0].Name() != "hero" {
		t.Errorf("styles: got %+v", got.CardStyles)
	}
	if !got.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt: got %v, want %v", got.FetchedAt, fetched)
	}
}

func TestPutSettingsOverwrites(t *testing.T) {
	s := testDB(t)
	first := makeSettings(time.Now().UTC())
	if err := s.PutSettings(first); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}

	second := model.CachedSettings{
		ListSettings: []model.ListPreset{{PresetName: "banner"}},
		CardStyles:   []model.RawDescriptor{},
		FetchedAt:    time.Now().UTC().Add(time.Minute),
	}
	if err := s.PutSettings(second); err != nil {
		t.Fatalf("PutSettings overwrite: %v", err)
	}

	got, found, err := s.GetSettings()
	if err != nil || !found {
		t.Fatalf("GetSettings: %v found=%v", err, found)
	}
	if len(got.ListSettings) != 1 || got.ListSettings[0].PresetName != "banner" {
		t.Errorf("overwrite did not replace presets: %+v", got.ListSettings)
	}
}

func TestFetchedAt(t *testing.T) {
	s := testDB(t)
	if _, found, _ := s.FetchedAt(); found {
		t.Error("fresh store should have no fetched_at")
	}
	fetched := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := s.PutSettings(makeSettings(fetched)); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}
	got, found, err := s.FetchedAt()
	if err != nil || !found {
		t.Fatalf("FetchedAt: %v found=%v", err, found)
	}
	if !got.Equal(fetched) {
		t.Errorf("FetchedAt: got %v, want %v", got, fetched)
	}
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

func TestSnapshotRoundTrip(t *testing.T) {
	s := testDB(t)
	snap := store.NewSnapshot("phone-hero", "hero", "railview layout project hero --width 390")
	if snap.ID == "" {
		t.Fatal("NewSnapshot should assign an ID")
	}
	if err := s.PutSnapshot(snap); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}

	got, found, err := s.GetSnapshot(snap.ID)
	if err != nil || !found {
		t.Fatalf("GetSnapshot: %v found=%v", err, found)
	}
	if got.Name != "phone-hero" || got.PresetName != "hero" {
		t.Errorf("snapshot: got %+v", got)
	}
}

func TestSnapshotListAndDelete(t *testing.T) {
	s := testDB(t)
	a := store.NewSnapshot("a", "hero", "cmd a")
	b := store.NewSnapshot("b", "grid", "cmd b")
	for _, snap := range []store.Snapshot{a, b} {
		if err := s.PutSnapshot(snap); err != nil {
			t.Fatalf("PutSnapshot: %v", err)
		}
	}

	snaps, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}

	if err := s.DeleteSnapshot(a.ID); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, found, _ := s.GetSnapshot(a.ID); found {
		t.Error("deleted snapshot still present")
	}
}

// ─── Maintenance ──────────────────────────────────────────────────────────────

func TestClearBucketDropsFetchedAt(t *testing.T) {
	s := testDB(t)
	if err := s.PutSettings(makeSettings(time.Now().UTC())); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}
	if err := s.ClearBucket("presets"); err != nil {
		t.Fatalf("ClearBucket: %v", err)
	}
	if _, found, _ := s.FetchedAt(); found {
		t.Error("clearing a settings bucket should drop fetched_at")
	}
	if _, found, _ := s.GetSettings(); found {
		t.Error("settings should read as absent after clear")
	}
}

func TestStats(t *testing.T) {
	s := testDB(t)
	if err := s.PutSettings(makeSettings(time.Now().UTC())); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}
	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected stats for 3 buckets, got %d", len(stats))
	}
	byName := map[string]store.BucketStats{}
	for _, st := range stats {
		byName[st.Name] = st
	}
	if byName["presets"].Count != 1 || byName["card_styles"].Count != 1 {
		t.Errorf("settings buckets should hold one entry each: %+v", stats)
	}
}
