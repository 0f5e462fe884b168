// Package cache persists team identifier lookups between runs so repeated
// commands skip the resolution round trip. The cache is advisory: any load
// or save problem degrades to an empty cache and a network lookup.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lnrcli/lnr/internal/linear"
)

const (
	cacheFileName = "cache.json"

	// ttlSeconds is how long a cache file stays usable. One timestamp
	// covers the whole file; a stale file is discarded in full.
	ttlSeconds = 3600
)

type fileData struct {
	Teams     map[string]linear.Team `json:"teams"`
	Timestamp int64                  `json:"timestamp"`
}

// Store maps team keys to teams. Keys are stored with their original case
// and looked up case-insensitively. Implements linear.TeamCache.
type Store struct {
	Path string
	Now  func() time.Time

	mu   sync.Mutex
	data fileData
}

func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "lnr", cacheFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(home, ".local", "share", "lnr", cacheFileName), nil
}

// Load opens the cache at path. It never fails: a missing, unreadable,
// malformed, or expired file yields an empty store.
func Load(path string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		Path: path,
		Now:  now,
		data: fileData{Teams: map[string]linear.Team{}},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return s
	}
	if data.Teams == nil || now().Unix()-data.Timestamp > ttlSeconds {
		return s
	}

	s.data = data
	return s
}

// GetTeamID looks up the id for a team key, ignoring case.
func (s *Store) GetTeamID(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for stored, team := range s.data.Teams {
		if strings.EqualFold(stored, key) {
			return team.ID, true
		}
	}
	return "", false
}

// PutTeam records a resolved team and refreshes the file timestamp.
func (s *Store) PutTeam(team linear.Team) {
	if team.Key == "" || team.ID == "" {
		return
	}

	s.mu.Lock()
	s.data.Teams[team.Key] = team
	s.data.Timestamp = s.Now().Unix()
	s.mu.Unlock()
}

// Save writes the cache back to disk. Best effort: callers ignore the error
// on the happy path and a partial write never clobbers the old file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp := s.Path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.data); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode cache file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}

	return nil
}
