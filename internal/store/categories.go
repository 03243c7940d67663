package store

import (
	"context"

	"linkdeck/internal/model"
)

// ApplyCategories replaces the category list with next (same list semantics
// as the manage-categories dialog: add, rename, reorder and delete are all
// expressed by the new list's contents and positions).
//
// Deleting a category CASCADE-DELETES every app referencing it. This is hard
// data loss, not an unlink; callers must confirm with the user first.
//
// Surviving categories are renumbered 0..n-1 by position. The category
// rewrite, the cascade and the order re-densification commit in one
// transaction; on failure nothing is altered and no redirect is reported.
//
// The returned redirect is non-empty when currentFilter named a deleted
// category: the nearest surviving category preceding it in the OLD list,
// else the "all" sentinel. The filter itself is owned by the UI; the store
// only reports where it should go.
func (s Store) ApplyCategories(ctx context.Context, db *DB, next []model.Category, currentFilter string) (string, error) {
	old := db.Categories

	nextIDs := map[string]bool{}
	cats := make([]model.Category, len(next))
	for i, c := range next {
		c.Order = i
		cats[i] = c
		nextIDs[c.ID] = true
	}

	removed := map[string]bool{}
	for _, c := range old {
		if !nextIDs[c.ID] {
			removed[c.ID] = true
		}
	}

	work := db.Clone()
	work.Categories = cats
	if len(removed) > 0 {
		kept := work.Apps[:0]
		for _, a := range work.Apps {
			if !removed[a.CategoryID] {
				kept = append(kept, a)
			}
		}
		work.Apps = kept
	}
	NormalizeOrders(work)

	if err := s.Save(work); err != nil {
		return "", err
	}
	*db = *work

	// Redirect only after a successful commit.
	if currentFilter == "" || !removed[currentFilter] {
		return "", nil
	}
	idx := -1
	for i, c := range old {
		if c.ID == currentFilter {
			idx = i
			break
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if nextIDs[old[i].ID] {
			return old[i].ID, nil
		}
	}
	return model.CategoryAll, nil
}
