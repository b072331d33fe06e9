package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrMismatch is returned when a world directory was created with different
// generator settings.
var ErrMismatch = errors.New("storage: world settings mismatch")

const metaFile = "world.json"

// Meta describes how the stored world was generated.
type Meta struct {
	ID        string    `json:"id"`
	Seed      int64     `json:"seed"`
	Generator string    `json:"generator"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadMeta reads world.json, or returns nil if the world has none yet.
func (s *Store) LoadMeta() (*Meta, error) {
	path := filepath.Join(s.dir, metaFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse meta: %w", err)
	}
	return &m, nil
}

// SaveMeta writes m to world.json atomically.
func (s *Store) SaveMeta(m *Meta) error {
	return atomicWriteJSON(filepath.Join(s.dir, metaFile), m)
}

// EnsureMeta records m for a new world, or checks that an existing world was
// generated with the same seed and generator. Mixing cubes from different
// generators would leave visible seams.
func (s *Store) EnsureMeta(m *Meta) error {
	existing, err := s.LoadMeta()
	if err != nil {
		return err
	}
	if existing == nil {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		if err := s.SaveMeta(m); err != nil {
			return err
		}
		s.log.Info("world created", "id", m.ID, "seed", m.Seed, "generator", m.Generator)
		return nil
	}
	if existing.Seed != m.Seed || existing.Generator != m.Generator {
		return fmt.Errorf("%w: stored seed %d generator %q, configured seed %d generator %q",
			ErrMismatch, existing.Seed, existing.Generator, m.Seed, m.Generator)
	}
	*m = *existing
	return nil
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
