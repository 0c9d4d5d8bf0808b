// Package snapshot persists per-cycle pipeline outputs as structured JSON
// files and serves them back as the last-known-good fallback for failed
// fetch stages. Writes are whole-file replacements with last-writer-wins
// semantics; the scheduler is responsible for never running two cycles
// against the same directory concurrently.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/models"
)

// Snapshot file names, matching the layout downstream consumers read.
const (
	GamesFile = "games_today.json"
	OddsFile  = "odds_snapshot.json"
	PropsFile = "player_props.json"
	EdgesFile = "game_prop_edges.json"
)

// Store reads and writes snapshot files under a data directory.
type Store struct {
	dir    string
	logger *logrus.Logger
}

// NewStore creates a new Store, making the data and cache directories.
func NewStore(dir string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "cache"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string {
	return s.dir
}

// WriteGames persists the schedule snapshot and returns the path written.
func (s *Store) WriteGames(snap models.GamesSnapshot) (string, error) {
	return s.writeJSON(GamesFile, snap)
}

// LoadGames reads the most recently persisted schedule snapshot.
func (s *Store) LoadGames() (*models.GamesSnapshot, error) {
	var snap models.GamesSnapshot
	if err := s.readJSON(GamesFile, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WriteOdds persists the market quote snapshot.
func (s *Store) WriteOdds(snap models.OddsSnapshot) (string, error) {
	return s.writeJSON(OddsFile, snap)
}

// LoadOdds reads the most recently persisted market quote snapshot.
func (s *Store) LoadOdds() (*models.OddsSnapshot, error) {
	var snap models.OddsSnapshot
	if err := s.readJSON(OddsFile, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WriteProps persists the modeled prop snapshot.
func (s *Store) WriteProps(snap models.PropsSnapshot) (string, error) {
	return s.writeJSON(PropsFile, snap)
}

// LoadProps reads the most recently persisted prop snapshot.
func (s *Store) LoadProps() (*models.PropsSnapshot, error) {
	var snap models.PropsSnapshot
	if err := s.readJSON(PropsFile, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WriteEdges persists the per-game aggregate snapshot.
func (s *Store) WriteEdges(snap models.EdgesSnapshot) (string, error) {
	return s.writeJSON(EdgesFile, snap)
}

// LoadEdges reads the most recently persisted per-game aggregates.
func (s *Store) LoadEdges() (*models.EdgesSnapshot, error) {
	var snap models.EdgesSnapshot
	if err := s.readJSON(EdgesFile, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WriteStatCache persists a per-season leaderboard cache (kind is "hitter"
// or "pitcher").
func (s *Store) WriteStatCache(kind string, season int, cache models.StatCache) (string, error) {
	return s.writeJSON(statCacheFile(kind, season), cache)
}

// LoadStatCache reads a per-season leaderboard cache.
func (s *Store) LoadStatCache(kind string, season int) (*models.StatCache, error) {
	var cache models.StatCache
	if err := s.readJSON(statCacheFile(kind, season), &cache); err != nil {
		return nil, err
	}
	return &cache, nil
}

func statCacheFile(kind string, season int) string {
	return filepath.Join("cache", fmt.Sprintf("%s_stats_%d.json", kind, season))
}

// writeJSON writes indented JSON through a temp file and rename so a crashed
// write never leaves a half-written snapshot behind.
func (s *Store) writeJSON(name string, v interface{}) (string, error) {
	path := filepath.Join(s.dir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to replace %s: %w", name, err)
	}
	s.logger.Debugf("Wrote %s", path)
	return path, nil
}

func (s *Store) readJSON(name string, dest interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no snapshot at %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("corrupt snapshot at %s: %w", path, err)
	}
	return nil
}
