package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"linkdeck/internal/model"

	"github.com/google/uuid"
)

// dbFileName is the legacy single-file JSON layout. It is imported into
// SQLite once (on first load with an empty state) and never written again.
const dbFileName = "db.json"

// DB is an in-memory snapshot of the two entity tables. The store owns the
// authoritative state; UI layers only ever hold a snapshot like this one.
type DB struct {
	Apps       []model.App      `json:"apps"`
	Categories []model.Category `json:"categories"`
}

// Store is an explicit handle to one workspace's persistent state.
// Constructed once at process start; no ambient global.
type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".linkdeck")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".linkdeck"), nil
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) dbPath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// Load returns the full snapshot, seeding and upgrading as needed.
func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

// Save commits the full snapshot in one transaction (all-or-nothing across
// both tables). On failure the persisted state is untouched.
func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

// NewID returns a fresh opaque entity id.
func NewID() string {
	return uuid.NewString()
}

func (db *DB) FindApp(id string) (*model.App, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Apps {
		if db.Apps[i].ID == id {
			return &db.Apps[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCategory(id string) (*model.Category, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Categories {
		if db.Categories[i].ID == id {
			return &db.Categories[i], true
		}
	}
	return nil, false
}

// HasCategory reports whether id names an existing category or the "all"
// sentinel (which is always a valid filter/category target).
func (db *DB) HasCategory(id string) bool {
	if id == model.CategoryAll {
		return true
	}
	_, ok := db.FindCategory(id)
	return ok
}

// Clone deep-copies the snapshot so multi-step mutations can be planned and
// thrown away if the commit fails.
func (db *DB) Clone() *DB {
	out := &DB{
		Apps:       make([]model.App, len(db.Apps)),
		Categories: make([]model.Category, len(db.Categories)),
	}
	copy(out.Categories, db.Categories)
	for i, a := range db.Apps {
		if a.CategoryOrder != nil {
			m := make(map[string]int, len(a.CategoryOrder))
			for k, v := range a.CategoryOrder {
				m[k] = v
			}
			a.CategoryOrder = m
		}
		if a.Clip != nil {
			c := *a.Clip
			a.Clip = &c
		}
		if a.LegacyOrder != nil {
			o := *a.LegacyOrder
			a.LegacyOrder = &o
		}
		out.Apps[i] = a
	}
	return out
}
