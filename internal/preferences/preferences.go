// Package preferences persists the small bits of auxiliary state that live
// outside the main database: the last-used form values that pre-fill the next
// new record.
package preferences

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Ether-4432/crane-game-log/internal/logger"
)

const defaultsFileName = "defaults.json"

// PlayDefaults are the last-used values from a saved record.
type PlayDefaults struct {
	StoreName   string `json:"storeName"`
	CostPerPlay int    `json:"costPerPlay"`
	SeriesName  string `json:"seriesName"`
	SettingName string `json:"settingName"`
}

type DefaultsStore interface {
	Load() PlayDefaults
	Save(defaults PlayDefaults) error
}

type defaultsStore struct {
	path string
	mu   sync.Mutex
	log  logger.Logger
}

func NewDefaultsStore(dataDir string) DefaultsStore {
	return &defaultsStore{
		path: filepath.Join(dataDir, defaultsFileName),
		log:  logger.New("defaultsStore"),
	}
}

// Load reads the stored defaults. A missing or unreadable file is not an
// error: the form simply starts blank.
func (s *defaultsStore) Load() PlayDefaults {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read play defaults", "path", s.path, "error", err)
		}
		return PlayDefaults{}
	}

	var defaults PlayDefaults
	if err := json.Unmarshal(data, &defaults); err != nil {
		s.log.Warn("play defaults file is corrupt, starting blank", "path", s.path, "error", err)
		return PlayDefaults{}
	}

	return defaults
}

func (s *defaultsStore) Save(defaults PlayDefaults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("preferences: mkdir %q: %w", filepath.Dir(s.path), err)
	}

	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return fmt.Errorf("preferences: marshal: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("preferences: write %q: %w", s.path, err)
	}

	return nil
}
