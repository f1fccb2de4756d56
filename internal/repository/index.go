package repository

import (
	"fmt"
	"os"
	"sync/atomic"

	"suggest/internal/config"
	"suggest/internal/model"
	"suggest/internal/utils"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

// Loader produces a full index snapshot. Loaders run at startup and on
// explicit reload, never on the request path.
type Loader func() ([]model.PlaceRecord, error)

// IndexStore holds the in-memory, read-only snapshot of place records.
// Reload swaps the whole slice atomically, so concurrent readers never see a
// partially updated index and need no locking.
type IndexStore struct {
	records atomic.Pointer[[]model.PlaceRecord]
	load    Loader
}

// NewIndexStore builds a store and performs the initial load. On load failure
// the store is still returned (empty) together with the error, so the service
// can start degraded and be fixed with a later reload.
func NewIndexStore(load Loader) (*IndexStore, error) {
	s := &IndexStore{load: load}
	err := s.Reload()
	return s, err
}

// Reload re-runs the loader and atomically replaces the snapshot. On failure
// the previous snapshot stays in place.
func (s *IndexStore) Reload() error {
	records, err := s.load()
	if err != nil {
		return err
	}
	s.records.Store(&records)
	return nil
}

// All returns the current snapshot. The returned slice must be treated as
// read-only; it is shared across all concurrent requests.
func (s *IndexStore) All() []model.PlaceRecord {
	p := s.records.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Len reports the number of records in the current snapshot.
func (s *IndexStore) Len() int {
	return len(s.All())
}

// SnapshotLoader reads place records from the JSON snapshot file. The
// enhanced variant is preferred when it exists, since it carries externally
// scraped rating sources on top of the base records.
func SnapshotLoader(cfg config.IndexConfig) Loader {
	return func() ([]model.PlaceRecord, error) {
		path := cfg.Path
		if cfg.EnhancedPath != "" {
			if _, err := os.Stat(cfg.EnhancedPath); err == nil {
				path = cfg.EnhancedPath
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read index snapshot %s: %w", path, err)
		}

		var records []model.PlaceRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse index snapshot %s: %w", path, err)
		}

		records = prepareRecords(records)
		log.Infof("Loaded %d place records from %s", len(records), path)
		return records, nil
	}
}

// prepareRecords drops unusable records, clamps numeric fields to their
// documented ranges and precomputes normalized names.
func prepareRecords(records []model.PlaceRecord) []model.PlaceRecord {
	out := make([]model.PlaceRecord, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if rec.Rating < 0 {
			rec.Rating = 0
		}
		if rec.Rating > 5 {
			rec.Rating = 5
		}
		if rec.ReviewCount < 0 {
			rec.ReviewCount = 0
		}
		rec.NormalizedName = utils.Normalize(rec.Name)
		out = append(out, rec)
	}
	return out
}
