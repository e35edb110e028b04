// Package collection_state tracks which artifacts have already been collected, so that a repeated
// collection only processes new or changed scenes
package collection_state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/turbot/tailpipe-plugin-envi/types"
)

// CollectedArtifact is the state stored for a single collected artifact
type CollectedArtifact struct {
	Size        int64     `json:"size"`
	CollectedAt time.Time `json:"collected_at"`
}

type CollectionState struct {
	mut sync.RWMutex
	// keyed by artifact original name
	Artifacts map[string]CollectedArtifact `json:"artifacts"`

	// path to the serialised collection state JSON
	jsonPath string
	// set by Upsert, cleared by Save
	dirty bool
}

// New returns an empty collection state which is saved to path (if set)
func New(path string) *CollectionState {
	return &CollectionState{
		Artifacts: make(map[string]CollectedArtifact),
		jsonPath:  path,
	}
}

// Load reads the collection state from the file at path; a missing file gives an empty state
func Load(path string) (*CollectionState, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	s := New(path)

	jsonBytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read collection state file: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection state file %s: %w", path, err)
	}
	if s.Artifacts == nil {
		s.Artifacts = make(map[string]CollectedArtifact)
	}
	slog.Info("Loaded collection state", "path", path, "artifacts", len(s.Artifacts))
	return s, nil
}

// ShouldCollect returns false if an artifact with the same original name and size has been collected
func (s *CollectionState) ShouldCollect(info *types.ArtifactInfo) bool {
	s.mut.RLock()
	defer s.mut.RUnlock()

	collected, ok := s.Artifacts[info.OriginalName]
	if !ok {
		return true
	}
	return collected.Size != info.Size
}

// Upsert records the artifact as collected
func (s *CollectionState) Upsert(info *types.ArtifactInfo) {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.dirty = true
	s.Artifacts[info.OriginalName] = CollectedArtifact{
		Size:        info.Size,
		CollectedAt: time.Now().UTC(),
	}
}

func (s *CollectionState) Len() int {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return len(s.Artifacts)
}

// Save writes the state to its file, replacing the previous file only once the new one is complete
// it is a no-op if nothing changed since the last save, or if the state has no path
func (s *CollectionState) Save() error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.jsonPath == "" || !s.dirty {
		return nil
	}

	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.jsonPath), 0755); err != nil {
		return fmt.Errorf("failed to create collection state directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.jsonPath), filepath.Base(s.jsonPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write collection state to file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(jsonBytes); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write collection state to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write collection state to file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.jsonPath); err != nil {
		return fmt.Errorf("failed to replace collection state file: %w", err)
	}

	s.dirty = false
	return nil
}
