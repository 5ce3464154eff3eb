// Package store provides a thin bbolt wrapper for railview's local settings
// cache.
//
// The store is the durable half of the settings gateway: the gateway decides
// freshness, the store only persists. The settings triple (presets, card
// styles, fetched-at timestamp) is written as a batch in one transaction and
// read back as a batch, so a reader never observes presets from one fetch
// and styles from another.
//
// Buckets:
//
//	presets     — serialized list preset collection (single entry)
//	card_styles — serialized raw card style descriptors (single entry)
//	snapshots   — saved resolve scenarios for reproducible workflows
//	_meta       — internal: schema version, created_at, fetched_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/MurthyAvanithsa/railview/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

// Bucket name constants.
var (
	bucketPresets   = []byte("presets")
	bucketStyles    = []byte("card_styles")
	bucketSnapshots = []byte("snapshots")
	bucketInternal  = []byte("_meta")
)

// Keys inside the single-entry buckets.
var (
	keyCurrent   = []byte("current")
	keyFetchedAt = []byte("fetched_at")
)

// AllBuckets lists every user-facing bucket for stats and clear operations.
var AllBuckets = []string{"presets", "card_styles", "snapshots"}

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// ─── Migrations ───────────────────────────────────────────────────────────────

// migrate ensures all buckets exist and schema is current.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketPresets, bucketStyles, bucketSnapshots, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(strconv.Itoa(schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Cached Settings ──────────────────────────────────────────────────────────

// PutSettings persists a complete settings payload in a single transaction.
func (s *Store) PutSettings(settings model.CachedSettings) error {
	presets, err := json.Marshal(settings.ListSettings)
	if err != nil {
		return fmt.Errorf("encoding presets: %w", err)
	}
	styles, err := json.Marshal(settings.CardStyles)
	if err != nil {
		return fmt.Errorf("encoding card styles: %w", err)
	}
	ts := strconv.FormatInt(settings.FetchedAt.UTC().UnixMilli(), 10)

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketPresets).Put(keyCurrent, presets); err != nil {
			return err
		}
		if err := tx.Bucket(bucketStyles).Put(keyCurrent, styles); err != nil {
			return err
		}
		return tx.Bucket(bucketInternal).Put(keyFetchedAt, []byte(ts))
	})
}

// GetSettings reads the persisted settings payload.
// Returns (settings, true, nil) if a complete payload exists,
// (zero, false, nil) when any part is missing.
func (s *Store) GetSettings() (model.CachedSettings, bool, error) {
	var settings model.CachedSettings
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		presets := tx.Bucket(bucketPresets).Get(keyCurrent)
		styles := tx.Bucket(bucketStyles).Get(keyCurrent)
		ts := tx.Bucket(bucketInternal).Get(keyFetchedAt)
		if presets == nil || styles == nil || ts == nil {
			return nil
		}
		if err := json.Unmarshal(presets, &settings.ListSettings); err != nil {
			return fmt.Errorf("decoding presets: %w", err)
		}
		if err := json.Unmarshal(styles, &settings.CardStyles); err != nil {
			return fmt.Errorf("decoding card styles: %w", err)
		}
		millis, err := strconv.ParseInt(string(ts), 10, 64)
		if err != nil {
			return fmt.Errorf("decoding fetched_at: %w", err)
		}
		settings.FetchedAt = time.UnixMilli(millis).UTC()
		found = true
		return nil
	})
	if err != nil {
		return model.CachedSettings{}, false, err
	}
	return settings, found, nil
}

// FetchedAt reads just the last-fetch timestamp without decoding payloads.
// Returns (zero, false, nil) when no fetch has been persisted.
func (s *Store) FetchedAt() (time.Time, bool, error) {
	var t time.Time
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		ts := tx.Bucket(bucketInternal).Get(keyFetchedAt)
		if ts == nil {
			return nil
		}
		millis, err := strconv.ParseInt(string(ts), 10, 64)
		if err != nil {
			return fmt.Errorf("decoding fetched_at: %w", err)
		}
		t = time.UnixMilli(millis).UTC()
		found = true
		return nil
	})
	return t, found, err
}

// ─── Snapshots ────────────────────────────────────────────────────────────────

// Snapshot is a saved resolve scenario: which preset against which viewport,
// with the command line that produced it, for reproducible workflows.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PresetName  string    `json:"preset_name"`
	CommandLine string    `json:"command_line"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSnapshot builds a Snapshot with a fresh UUID and creation time.
func NewSnapshot(name, presetName, commandLine string) Snapshot {
	return Snapshot{
		ID:          uuid.NewString(),
		Name:        name,
		PresetName:  presetName,
		CommandLine: commandLine,
		CreatedAt:   time.Now().UTC(),
	}
}

// PutSnapshot saves a snapshot. The key is snap:<ID>.
func (s *Store) PutSnapshot(snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte("snap:"+snap.ID), b)
	})
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id string) (Snapshot, bool, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSnapshots).Get([]byte("snap:" + id))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &snap)
	})
	if err != nil {
		return snap, false, err
	}
	return snap, snap.ID != "", nil
}

// ListSnapshots returns all snapshots in key order.
func (s *Store) ListSnapshots() ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			var snap Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return err
			}
			snaps = append(snaps, snap)
			return nil
		})
	})
	return snaps, err
}

// DeleteSnapshot removes a snapshot by ID.
func (s *Store) DeleteSnapshot(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete([]byte("snap:" + id))
	})
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	buckets := map[string][]byte{
		"presets":     bucketPresets,
		"card_styles": bucketStyles,
		"snapshots":   bucketSnapshots,
	}

	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket(buckets[name])
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket. Clearing a settings
// bucket also drops the fetched_at marker so the cache reads as absent.
func (s *Store) ClearBucket(name string) error {
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		if _, err := tx.CreateBucket(bname); err != nil {
			return err
		}
		if name == "presets" || name == "card_styles" {
			return tx.Bucket(bucketInternal).Delete(keyFetchedAt)
		}
		return nil
	})
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}
