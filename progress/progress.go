// Package progress persists per-section reading progress.
package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNegativeOffset is returned when a completion below zero is recorded.
var ErrNegativeOffset = errors.New("negative completion offset")

// Status describes how a Load went.
type Status int

const (
	Loaded  Status = iota
	Missing        // no progress file yet
	Corrupt        // unreadable or undecodable, treated as empty
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Corrupt:
		return "corrupt"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// LoadOutcome reports the result of reading the progress file.
// The store is usable whatever the outcome; Err is informational.
type LoadOutcome struct {
	Status Status
	Err    error
}

// Store maps section identifiers to the top row reached when the
// section was last closed. Every update is written through to disk.
type Store struct {
	path    string
	codec   Codec
	entries map[string]int
}

// New creates an empty store backed by the file at path.
func New(path string, codec Codec) *Store {
	if codec == nil {
		codec = JSON
	}
	return &Store{path: path, codec: codec, entries: make(map[string]int)}
}

// Open creates a store and loads it from disk.
func Open(path string, codec Codec) (*Store, LoadOutcome) {
	s := New(path, codec)
	return s, s.Load()
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory map with the contents of the progress file.
// A missing or malformed file leaves the store empty. Negative entries are
// dropped and the rest kept, reported as Corrupt.
func (s *Store) Load() LoadOutcome {
	s.entries = make(map[string]int)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return LoadOutcome{Status: Missing}
	}
	if err != nil {
		return LoadOutcome{Status: Corrupt, Err: fmt.Errorf("reading %s: %w", s.path, err)}
	}

	entries, err := s.codec.Decode(data)
	if err != nil {
		return LoadOutcome{Status: Corrupt, Err: fmt.Errorf("decoding %s: %w", s.path, err)}
	}
	var bad []string
	for id, offset := range entries {
		if offset < 0 {
			bad = append(bad, id)
			delete(entries, id)
		}
	}
	s.entries = entries
	if len(bad) > 0 {
		sort.Strings(bad)
		return LoadOutcome{Status: Corrupt, Err: fmt.Errorf("decoding %s: sections %q: %w", s.path, bad, ErrNegativeOffset)}
	}
	return LoadOutcome{Status: Loaded}
}

// Completion returns the saved offset for a section, or 0.
func (s *Store) Completion(sectionID string) int {
	return s.entries[sectionID]
}

// SetCompletion records offset for a section and saves the whole store.
// The in-memory value is kept even when saving fails.
func (s *Store) SetCompletion(sectionID string, offset int) error {
	if offset < 0 {
		return fmt.Errorf("section %q: %w", sectionID, ErrNegativeOffset)
	}
	s.entries[sectionID] = offset
	if err := s.Save(); err != nil {
		return fmt.Errorf("saving progress for %q: %w", sectionID, err)
	}
	return nil
}

// Save writes every entry to disk.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := s.codec.Encode(s.entries)
	if err != nil {
		return err
	}

	// Write beside the target and rename so a crash never leaves half a file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Len returns the number of sections with saved progress.
func (s *Store) Len() int {
	return len(s.entries)
}
