// Package statestore persists rating state as a JSON record on disk.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixrank/pixrank/internal/domain/model"
	"github.com/pixrank/pixrank/pkg/metrics"
)

// record is the on-disk shape. Field names must round-trip exactly so that
// state files written by earlier versions of the tool keep loading.
type record struct {
	Photos []entry `json:"photos"`
}

// entry fields are pointers so a missing required field is distinguishable
// from a zero value when validating a loaded record.
type entry struct {
	Filename *string  `json:"filename"`
	Score    *float64 `json:"score"`
	Matches  *int     `json:"matches"`
	Wins     *int     `json:"wins"`
}

// Store reads and writes the persisted rating state.
type Store struct{}

// NewStore creates a state store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the rating state from path. A missing file is not an error: it
// means the ranking starts from empty state. A file that exists but does not
// parse, or whose entries lack required fields, yields ErrMalformedState so
// prior ratings are never silently discarded.
func (s *Store) Load(path string) ([]*model.Photo, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedState, path, err)
	}

	photos := make([]*model.Photo, 0, len(rec.Photos))
	for i, e := range rec.Photos {
		if e.Filename == nil || e.Score == nil || e.Matches == nil || e.Wins == nil {
			return nil, fmt.Errorf("%w: %s: entry %d is missing required fields", ErrMalformedState, path, i)
		}
		if *e.Matches < 0 || *e.Wins < 0 || *e.Wins > *e.Matches {
			return nil, fmt.Errorf("%w: %s: entry %d has an impossible match record", ErrMalformedState, path, i)
		}
		photos = append(photos, model.NewPhoto(
			*e.Filename,
			model.WithScore(*e.Score),
			model.WithRecord(*e.Matches, *e.Wins),
		))
	}
	return photos, nil
}

// Save writes the photos to path as the persisted record, in the supplied
// order (callers pass the ranked view so the file reads best to worst).
// The write is atomic: a temp file in the destination directory is flushed,
// closed and renamed over the target, so a partial write is never left
// behind as the final state.
func (s *Store) Save(photos []*model.Photo, path string) error {
	rec := record{Photos: make([]entry, 0, len(photos))}
	for _, p := range photos {
		filename := p.Filename()
		score := p.Score()
		matches := p.Matches()
		wins := p.Wins()
		rec.Photos = append(rec.Photos, entry{
			Filename: &filename,
			Score:    &score,
			Matches:  &matches,
			Wins:     &wins,
		})
	}

	raw, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveState, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveState, err)
	}
	defer func() {
		// No-ops once the rename has succeeded.
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveState, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveState, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveState, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveState, err)
	}

	metrics.RecordStateSave()
	return nil
}
