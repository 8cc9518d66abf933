// Package supply implements the Z0 supply fallback: it
// persists the last-good Z0 collection pool to disk and restores it when a
// fresh collection run comes back too thin to build a credible brief.
package supply

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"briefline/internal/domain/entity"
	"briefline/internal/gate"
)

// MinTotalItems is the default floor below which a fresh collection is
// considered degraded enough to trigger fallback (Z0_MIN_TOTAL_ITEMS).
const MinTotalItems = 1200

// Store persists and restores the latest.jsonl/latest.meta.json snapshot
// pair under a data directory (data/raw/z0).
type Store struct {
	dir string // data/raw/z0
}

// NewStore returns a Store rooted at dataDir/raw/z0.
func NewStore(dataDir string) *Store {
	return &Store{dir: filepath.Join(dataDir, "raw", "z0")}
}

func (s *Store) itemsPath() string { return filepath.Join(s.dir, "latest.jsonl") }
func (s *Store) metaPath() string  { return filepath.Join(s.dir, "latest.meta.json") }

// Save atomically overwrites the latest snapshot with items/meta. Called
// only after a run's collection stage produced a healthy pool, so "latest"
// always means "last known-good", never a degraded run's output.
func (s *Store) Save(items []entity.RawItem, meta entity.CollectionMeta) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("supply: mkdir %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "latest.jsonl.tmp-*")
	if err != nil {
		return fmt.Errorf("supply: create temp items file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			tmp.Close()
			return fmt.Errorf("supply: encode item %s: %w", item.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("supply: flush items file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("supply: sync items file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("supply: close items file: %w", err)
	}
	if err := os.Rename(tmpName, s.itemsPath()); err != nil {
		return fmt.Errorf("supply: rename items file: %w", err)
	}

	return gate.WriteMetaJSON(s.metaPath(), meta)
}

// Snapshot is a restored last-good pool plus the age of the snapshot at
// restore time, used to populate supply_fallback.meta.json.
type Snapshot struct {
	Items []entity.RawItem
	Meta  entity.CollectionMeta
	Age   time.Duration
}

// Restore loads the last-good snapshot from disk. ErrNoSnapshot is returned
// when no prior snapshot exists, which is fatal (a forced fallback
// with nothing to fall back to aborts the run).
func (s *Store) Restore(now time.Time) (Snapshot, error) {
	f, err := os.Open(s.itemsPath())
	if os.IsNotExist(err) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("supply: open items snapshot: %w", err)
	}
	defer f.Close()

	var items []entity.RawItem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var item entity.RawItem
		if err := json.Unmarshal(scanner.Bytes(), &item); err != nil {
			return Snapshot{}, fmt.Errorf("supply: decode snapshot item: %w", err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("supply: scan snapshot: %w", err)
	}

	metaData, err := os.ReadFile(s.metaPath())
	if err != nil {
		return Snapshot{}, fmt.Errorf("supply: read snapshot meta: %w", err)
	}
	var meta entity.CollectionMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return Snapshot{}, fmt.Errorf("supply: decode snapshot meta: %w", err)
	}

	return Snapshot{Items: items, Meta: meta, Age: now.Sub(meta.CollectedAt)}, nil
}

// ErrNoSnapshot is returned by Restore when no prior snapshot has ever been
// saved.
var ErrNoSnapshot = fmt.Errorf("supply: no prior snapshot available")

// ShouldFallback reports whether a fresh collection is degraded enough to
// trigger fallback: either it fell below the item-count floor, or the
// caller is forcing the fallback path (e.g. a hard-fail override).
func ShouldFallback(totalItems int, forced bool, minTotal int) bool {
	return forced || totalItems < minTotal
}
