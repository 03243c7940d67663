package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"linkdeck/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), "linkdeck.sqlite")
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout serializes
	// back-to-back writers instead of failing with "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS apps (
			id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL,
			global_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_apps_category ON apps(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_apps_global_order ON apps(global_order);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			display_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func sqliteStateHasAnyRows(ctx context.Context, db *sql.DB) (bool, error) {
	qs := []string{
		`SELECT COUNT(1) FROM apps`,
		`SELECT COUNT(1) FROM categories`,
	}
	for _, q := range qs {
		var n int
		if err := db.QueryRowContext(ctx, q).Scan(&n); err != nil {
			// Tables missing means empty.
			return false, nil
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// LoadSQLite loads the snapshot from the workspace SQLite db.
//
// On a completely empty store it first tries a one-time import of a legacy
// db.json, and otherwise seeds the built-in starter dataset exactly once
// (checked by emptiness, never by a version flag). Apps still carrying the
// legacy single `order` field are upgraded to globalOrder/categoryOrder in
// one transaction before the snapshot is returned.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	hasState, err := sqliteStateHasAnyRows(ctx, db)
	if err != nil {
		return nil, err
	}
	if !hasState {
		seedDB := seedSnapshot()
		if b, err := os.ReadFile(s.dbPath()); err == nil && len(b) > 0 {
			legacy, err := loadWireDB(b)
			if err != nil {
				return nil, err
			}
			seedDB = legacy
		}
		upgradeLegacyOrders(seedDB)
		if err := s.saveSQLiteTo(ctx, db, seedDB); err != nil {
			return nil, err
		}
	}

	out, err := loadStateFromSQLite(ctx, db)
	if err != nil {
		return nil, err
	}

	// One-shot schema upgrade for stores written on the old single-order
	// layout. All apps are rewritten in one transaction or none are.
	if upgradeLegacyOrders(out) {
		if err := s.saveSQLiteTo(ctx, db, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// upgradeLegacyOrders converts legacy single-`order` apps in place:
// globalOrder := order, categoryOrder := {categoryId: order}, old field gone.
// Returns true when anything changed.
func upgradeLegacyOrders(db *DB) bool {
	changed := false
	for i := range db.Apps {
		a := &db.Apps[i]
		if a.LegacyOrder == nil {
			continue
		}
		if a.CategoryOrder == nil {
			a.GlobalOrder = *a.LegacyOrder
			a.CategoryOrder = map[string]int{a.CategoryID: *a.LegacyOrder}
		}
		a.LegacyOrder = nil
		changed = true
	}
	return changed
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return s.saveSQLiteTo(ctx, db, st)
}

// saveSQLiteTo rewrites both tables inside one transaction (replace-all;
// simple and safe at this scale).
func (s Store) saveSQLiteTo(ctx context.Context, db *sql.DB, st *DB) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return txError(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"apps", "categories"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return txError(err)
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, a := range st.Apps {
		raw, err := json.Marshal(a)
		if err != nil {
			return txError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO apps(id, category_id, global_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			a.ID, a.CategoryID, a.GlobalOrder, string(raw), nowMs); err != nil {
			return txError(err)
		}
	}
	for _, c := range st.Categories {
		raw, err := json.Marshal(c)
		if err != nil {
			return txError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories(id, display_order, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			c.ID, c.Order, string(raw), nowMs); err != nil {
			return txError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return txError(err)
	}
	return nil
}

// SaveApps rewrites only the apps table (one transaction). Used by reorder
// commits, which never touch categories.
func (s Store) SaveApps(ctx context.Context, apps []model.App) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return writeError("apps", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM apps`); err != nil {
		return writeError("apps", err)
	}
	nowMs := time.Now().UTC().UnixMilli()
	for _, a := range apps {
		raw, err := json.Marshal(a)
		if err != nil {
			return writeError("apps", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO apps(id, category_id, global_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			a.ID, a.CategoryID, a.GlobalOrder, string(raw), nowMs); err != nil {
			return writeError("apps", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return writeError("apps", err)
	}
	return nil
}

// DeleteAppsWhere removes every app matching pred inside one transaction and
// re-densifies the surviving order fields.
func (s Store) DeleteAppsWhere(ctx context.Context, db *DB, pred func(model.App) bool) error {
	next := db.Clone()
	kept := next.Apps[:0]
	for _, a := range next.Apps {
		if !pred(a) {
			kept = append(kept, a)
		}
	}
	next.Apps = kept
	NormalizeOrders(next)
	if err := s.SaveApps(ctx, next.Apps); err != nil {
		return err
	}
	*db = *next
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Apps: []model.App{}, Categories: []model.Category{}}

	apps, err := readJSONRows[model.App](ctx, db, `SELECT json FROM apps ORDER BY global_order`)
	if err != nil {
		return nil, err
	}
	if apps != nil {
		out.Apps = apps
	}
	cats, err := readJSONRows[model.Category](ctx, db, `SELECT json FROM categories ORDER BY display_order`)
	if err != nil {
		return nil, err
	}
	if cats != nil {
		out.Categories = cats
	}
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// loadWireDB parses a legacy db.json payload. Shape matches the export
// document, including apps that still carry the single `order` field.
func loadWireDB(b []byte) (*DB, error) {
	var db DB
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, err
	}
	if db.Apps == nil {
		db.Apps = []model.App{}
	}
	if db.Categories == nil {
		db.Categories = []model.Category{}
	}
	return &db, nil
}
