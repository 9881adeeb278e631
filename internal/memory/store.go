// File: internal/memory/store.go
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is the durable reference-name -> locator mapping. The file on disk
// is the source of truth across sessions; a Store owns it exclusively for
// the lifetime of one session. Every mutation rewrites the whole file
// synchronously so a learned locator survives a crash.
//
// Concurrent sessions sharing one file are last-writer-wins; no locking is
// provided.
type Store struct {
	path string
	log  *zap.Logger

	mu   sync.Mutex
	refs map[string]string
}

// Open loads the store at path. A missing file is a first run and yields an
// empty mapping, not an error.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("memory store path must not be empty")
	}

	s := &Store{
		path: path,
		log:  logger.Named("memory"),
		refs: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("No locator memory file yet, starting empty.", zap.String("path", path))
			return s, nil
		}
		return nil, fmt.Errorf("failed to read locator memory %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.refs); err != nil {
		return nil, fmt.Errorf("failed to parse locator memory %s: %w", path, err)
	}
	if s.refs == nil {
		s.refs = make(map[string]string)
	}

	s.log.Debug("Loaded locator memory.", zap.String("path", path), zap.Int("entries", len(s.refs)))
	return s, nil
}

// Lookup returns the remembered locator for a reference, if any.
func (s *Store) Lookup(reference string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	locator, ok := s.refs[reference]
	return locator, ok
}

// Remember stores the latest working locator for a reference and persists
// the full mapping immediately. A persistence failure is returned to the
// caller; silently dropping a learned locator would defeat the store.
func (s *Store) Remember(reference, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.refs[reference]
	s.refs[reference] = locator

	if err := s.flushLocked(); err != nil {
		// Roll back the in-memory entry so memory and disk stay in step.
		if existed {
			s.refs[reference] = previous
		} else {
			delete(s.refs, reference)
		}
		return fmt.Errorf("failed to persist locator for %q: %w", reference, err)
	}

	s.log.Info("Learned locator.", zap.String("reference", reference), zap.String("locator", locator))
	return nil
}

// Forget removes a single reference and persists the change. Forgetting an
// unknown reference is a no-op.
func (s *Store) Forget(reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.refs[reference]; !ok {
		return nil
	}
	delete(s.refs, reference)
	if err := s.flushLocked(); err != nil {
		return fmt.Errorf("failed to persist removal of %q: %w", reference, err)
	}
	return nil
}

// Clear drops every entry and persists the empty mapping.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs = make(map[string]string)
	if err := s.flushLocked(); err != nil {
		return fmt.Errorf("failed to persist cleared memory: %w", err)
	}
	return nil
}

// All returns a copy of the current mapping.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.refs))
	for k, v := range s.refs {
		out[k] = v
	}
	return out
}

// Len reports the number of remembered references.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.refs)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// flushLocked rewrites the whole file. Indented output keeps the file
// hand-inspectable. The write goes through a temp file and rename so a
// crash mid-write cannot truncate the previous state.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.refs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode locator memory: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create memory directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".healix-memory-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp memory file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close memory file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace memory file: %w", err)
	}
	return nil
}
