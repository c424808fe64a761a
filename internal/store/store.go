// internal/store/store.go
//
// Durable local storage for exactly one brief document. The document is
// regenerable working state, so loading is deliberately forgiving: a missing
// or corrupt file silently yields a fresh default document instead of an
// error. Saving is cheap enough to call on every keystroke.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kapitan-marona/briefpro/internal/brief"
)

// FileName is the fixed document file inside the state directory.
const FileName = "brief.json"

// Store reads and writes the brief document at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithClock overrides the clock used for the savedAt stamp.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.now = clock
	}
}

// New builds a store rooted at the given state directory.
func New(stateDir string, opts ...Option) *Store {
	s := &Store{
		path: filepath.Join(stateDir, FileName),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

// envelope is the on-disk layout: the document plus the storage key the
// browser versions of this tool persisted under, kept for provenance.
type envelope struct {
	Key     string `json:"key"`
	SavedAt string `json:"savedAt,omitempty"`
	*brief.Document
}

// Load reads the stored document. It never fails: a missing file, unreadable
// file or malformed JSON all fall back to a fresh default document.
func (s *Store) Load() *brief.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return brief.DefaultDocument()
	}
	doc := brief.DefaultDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return brief.DefaultDocument()
	}
	doc.Upgrade()
	return doc
}

// Save serializes the document under the fixed key. The write goes through a
// temp file and rename so a crash mid-save cannot corrupt the stored brief.
func (s *Store) Save(doc *brief.Document) error {
	if doc == nil {
		return fmt.Errorf("store: nil document")
	}
	env := envelope{
		Key:      brief.StorageKey,
		SavedAt:  s.now().UTC().Format(time.RFC3339),
		Document: doc,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: ensure state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: replace document: %w", err)
	}
	return nil
}

// Exists reports whether a stored document is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return !errors.Is(err, fs.ErrNotExist) && err == nil
}
