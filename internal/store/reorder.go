package store

import (
	"context"
	"strings"

	"linkdeck/internal/model"
)

// PlanMove computes the snapshot resulting from dropping sourceID onto
// targetID within the given view: the source app is removed from its old
// position in the view's ordered list and reinserted at the target's
// position (single-element move, not a swap), then exactly that view's order
// field is renumbered 0..n-1. Apps outside the view are never reordered.
//
// Returns (nil, false) for no-ops: empty/equal ids, or ids not present in
// the view. A no-op performs zero writes by construction.
func PlanMove(db *DB, view View, sourceID, targetID string) (*DB, bool) {
	sourceID = strings.TrimSpace(sourceID)
	targetID = strings.TrimSpace(targetID)
	if sourceID == "" || targetID == "" || sourceID == targetID {
		return nil, false
	}

	next := db.Clone()
	list := next.AppsInView(view)

	srcIdx, dstIdx := -1, -1
	for i, a := range list {
		switch a.ID {
		case sourceID:
			srcIdx = i
		case targetID:
			dstIdx = i
		}
	}
	if srcIdx < 0 || dstIdx < 0 {
		return nil, false
	}

	moved := list[srcIdx]
	list = append(list[:srcIdx], list[srcIdx+1:]...)
	list = append(list, nil)
	copy(list[dstIdx+1:], list[dstIdx:])
	list[dstIdx] = moved

	RenumberView(list, view)
	return next, true
}

// CommitMove plans and persists a drag commit. The apps-table rewrite is a
// single transaction; categories are never touched. Callers that want
// optimistic UI apply PlanMove to their visible snapshot first and run
// CommitMove without awaiting it; a failed write must be reported, and the
// next Load returns the authoritative order.
func (s Store) CommitMove(ctx context.Context, db *DB, view View, sourceID, targetID string) (bool, error) {
	next, ok := PlanMove(db, view, sourceID, targetID)
	if !ok {
		return false, nil
	}
	if err := s.SaveApps(ctx, next.Apps); err != nil {
		return false, err
	}
	*db = *next
	return true, nil
}

// ReorderView persists an explicit full arrangement of one view (the new
// sequence of app ids, e.g. from the web UI's sortable grid). Ids outside
// the view are rejected as a no-op.
func (s Store) ReorderView(ctx context.Context, db *DB, view View, orderedIDs []string) (bool, error) {
	next := db.Clone()
	list := next.AppsInView(view)
	if len(orderedIDs) != len(list) {
		return false, nil
	}
	byID := map[string]*model.App{}
	for _, a := range list {
		byID[a.ID] = a
	}
	arranged := make([]*model.App, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		a, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return false, nil
		}
		arranged = append(arranged, a)
		delete(byID, a.ID)
	}
	RenumberView(arranged, view)
	if err := s.SaveApps(ctx, next.Apps); err != nil {
		return false, err
	}
	*db = *next
	return true, nil
}
