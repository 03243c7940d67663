package store

import (
	"context"
	"strings"
	"time"

	"linkdeck/internal/model"
)

// AddApp appends a new app (end of global list, end of its category's list)
// and persists. Field-level validation is the form layer's job; the store
// only guarantees ordering invariants.
func (s Store) AddApp(ctx context.Context, db *DB, a model.App) (model.App, error) {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = NewID()
	}
	if strings.TrimSpace(a.CategoryID) == "" {
		a.CategoryID = model.CategoryAll
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.LegacyOrder = nil

	next := db.Clone()
	AssignAppendOrders(next, &a)
	next.Apps = append(next.Apps, a)
	if err := s.SaveApps(ctx, next.Apps); err != nil {
		return model.App{}, err
	}
	*db = *next
	return a, nil
}

// EditApp updates name/url/icon/clip/category of an existing app. A category
// change appends the app at the end of the new category's list and
// re-densifies the old one; leaving an app without an order entry for its
// own category would violate the ordering invariant.
func (s Store) EditApp(ctx context.Context, db *DB, a model.App) error {
	next := db.Clone()
	cur, ok := next.FindApp(a.ID)
	if !ok {
		return errAppNotFound(a.ID)
	}

	oldCat := cur.CategoryID
	cur.Name = a.Name
	cur.URL = a.URL
	cur.Icon = a.Icon
	cur.Clip = a.Clip
	cur.UpdatedAt = time.Now().UTC()

	if a.CategoryID != "" && a.CategoryID != oldCat {
		newCat := a.CategoryID
		inCat := 0
		for i := range next.Apps {
			if next.Apps[i].ID != cur.ID && next.Apps[i].CategoryID == newCat {
				inCat++
			}
		}
		cur.CategoryID = newCat
		if cur.CategoryOrder == nil {
			cur.CategoryOrder = map[string]int{}
		}
		cur.CategoryOrder[newCat] = inCat
		delete(cur.CategoryOrder, oldCat)
		NormalizeOrders(next)
	}

	if err := s.SaveApps(ctx, next.Apps); err != nil {
		return err
	}
	*db = *next
	return nil
}

// DeleteApp removes one app and re-densifies the surviving orders.
func (s Store) DeleteApp(ctx context.Context, db *DB, id string) error {
	if _, ok := db.FindApp(id); !ok {
		return errAppNotFound(id)
	}
	return s.DeleteAppsWhere(ctx, db, func(a model.App) bool { return a.ID == id })
}

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return e.kind + " not found: " + e.id
}

func errAppNotFound(id string) error {
	return notFoundError{kind: "app", id: id}
}
