// Package history persists download provenance and manual overrides in
// SQLite. It is deliberately not a download-status cache: status is always
// recomputed from disk, and this store only answers "where did this image
// come from" and "which slots did the user mark complete by hand".
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/status"
)

// Entry is one recorded download.
type Entry struct {
	ID           int64
	RatingKey    string
	Asset        layout.AssetKind
	Season       int // layout.NoSeason for the item-level slot
	Provider     string
	CandidateKey string
	CreatedAt    time.Time
}

// Store persists history records and override flags.
type Store struct {
	db *sql.DB
}

// NewStore creates a history store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordDownload inserts a download record for one asset slot.
func (s *Store) RecordDownload(ratingKey string, asset layout.AssetKind, season int, provider, candidateKey string) error {
	_, err := s.db.Exec(`
		INSERT INTO downloads (rating_key, asset, season, provider, candidate_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ratingKey, asset.String(), season, provider, candidateKey, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

// LastDownload returns the most recent download record for a slot, or nil
// when the slot has never been downloaded.
func (s *Store) LastDownload(ratingKey string, asset layout.AssetKind, season int) (*Entry, error) {
	e := &Entry{}
	var assetStr string
	err := s.db.QueryRow(`
		SELECT id, rating_key, asset, season, provider, candidate_key, created_at
		FROM downloads
		WHERE rating_key = ? AND asset = ? AND season = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`,
		ratingKey, asset.String(), season,
	).Scan(&e.ID, &e.RatingKey, &assetStr, &e.Season, &e.Provider, &e.CandidateKey, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last download: %w", err)
	}
	e.Asset, err = layout.ParseAsset(assetStr)
	if err != nil {
		return nil, fmt.Errorf("stored download %d: %w", e.ID, err)
	}
	return e, nil
}

// List returns downloads for one item, most recent first.
func (s *Store) List(ratingKey string, limit int) ([]*Entry, error) {
	query := `
		SELECT id, rating_key, asset, season, provider, candidate_key, created_at
		FROM downloads WHERE rating_key = ?
		ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query, ratingKey)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		e := &Entry{}
		var assetStr string
		if err := rows.Scan(&e.ID, &e.RatingKey, &assetStr, &e.Season, &e.Provider, &e.CandidateKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		if e.Asset, err = layout.ParseAsset(assetStr); err != nil {
			return nil, fmt.Errorf("stored download %d: %w", e.ID, err)
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// SetOverride marks a slot as manually complete. Setting an override twice
// is a no-op.
func (s *Store) SetOverride(ratingKey string, asset layout.AssetKind) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO overrides (rating_key, asset, created_at)
		VALUES (?, ?, ?)`,
		ratingKey, asset.String(), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	return nil
}

// ClearOverride removes a manual override if present.
func (s *Store) ClearOverride(ratingKey string, asset layout.AssetKind) error {
	_, err := s.db.Exec(`DELETE FROM overrides WHERE rating_key = ? AND asset = ?`,
		ratingKey, asset.String())
	if err != nil {
		return fmt.Errorf("clear override: %w", err)
	}
	return nil
}

// ToggleOverride flips a slot's override and reports the new state.
func (s *Store) ToggleOverride(ratingKey string, asset layout.AssetKind) (bool, error) {
	set, err := s.IsOverridden(ratingKey, asset)
	if err != nil {
		return false, err
	}
	if set {
		return false, s.ClearOverride(ratingKey, asset)
	}
	return true, s.SetOverride(ratingKey, asset)
}

// IsOverridden reports whether a slot carries a manual override.
func (s *Store) IsOverridden(ratingKey string, asset layout.AssetKind) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM overrides WHERE rating_key = ? AND asset = ?`,
		ratingKey, asset.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query override: %w", err)
	}
	return n > 0, nil
}

// Overrides loads every override flag as the plain set the status
// reconciler consumes.
func (s *Store) Overrides() (status.Overrides, error) {
	rows, err := s.db.Query(`SELECT rating_key, asset FROM overrides`)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ov := make(status.Overrides)
	for rows.Next() {
		var ratingKey, assetStr string
		if err := rows.Scan(&ratingKey, &assetStr); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		asset, err := layout.ParseAsset(assetStr)
		if err != nil {
			return nil, fmt.Errorf("stored override for %s: %w", ratingKey, err)
		}
		ov[status.OverrideKey{RatingKey: ratingKey, Asset: asset}] = struct{}{}
	}
	return ov, rows.Err()
}
