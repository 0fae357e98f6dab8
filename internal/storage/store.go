// Package storage persists maps.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/isotile/internal/world"
)

// Key is the name under which the map is stored.
const Key = "map"

var (
	// ErrNoSavedMap is returned by Load when nothing was saved yet.
	ErrNoSavedMap = errors.New("storage: no saved map")
	// ErrCorruptMap is returned by Load when the saved map cannot be decoded.
	ErrCorruptMap = errors.New("storage: corrupt map")
)

// Store loads and saves one map record.
type Store interface {
	Load() (*world.Record, error)
	Save(rec *world.Record) error
}

// FileStore keeps the record as <Dir>/map.json.
type FileStore struct {
	dir string
	log *zap.Logger
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first save.
func NewFileStore(dir string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{dir: dir, log: log}
}

// Path returns the file the record is kept in.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, Key+".json")
}

// Load reads the saved record.
func (s *FileStore) Load() (*world.Record, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSavedMap
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", s.Path(), err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.log.Debug("map read", zap.String("path", s.Path()), zap.Int("width", rec.Width), zap.Int("height", rec.Height))
	return rec, nil
}

// Save writes rec. The previous file is replaced atomically.
func (s *FileStore) Save(rec *world.Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, Key+"-*.json")
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	s.log.Info("map saved", zap.String("path", s.Path()), zap.Int("bytes", len(data)))
	return nil
}

// MemoryStore keeps the record encoded in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore returns an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the saved record.
func (s *MemoryStore) Load() (*world.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoSavedMap
	}
	return Decode(s.data)
}

// Save encodes rec.
func (s *MemoryStore) Save(rec *world.Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// SetRaw replaces the stored bytes.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
}

// record accepts the older "zVertices" key for the elevations.
type record struct {
	world.Record
	ZVertices []int `json:"zVertices,omitempty"`
}

// Encode returns the JSON form of rec.
func Encode(rec *world.Record) ([]byte, error) {
	if rec == nil {
		return nil, errors.New("storage: nil record")
	}
	return json.Marshal(rec)
}

// Decode parses the JSON form of a record. Dimensions are checked when the
// record is loaded into a map, not here.
func Decode(data []byte) (*world.Record, error) {
	var raw record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptMap, err)
	}
	rec := raw.Record
	if rec.Elevations == nil {
		rec.Elevations = raw.ZVertices
	}
	if rec.Tiles == nil || rec.Elevations == nil {
		return nil, fmt.Errorf("%w: missing tiles or elevations", ErrCorruptMap)
	}
	return &rec, nil
}
