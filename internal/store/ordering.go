package store

import (
	"sort"

	"linkdeck/internal/model"
)

// View identifies which ordered sequence an operation targets: the
// unfiltered all-apps view, or a single category's filtered view.
type View string

const ViewAll = View(model.CategoryAll)

// ViewFor maps a filter id onto a View.
func ViewFor(categoryID string) View {
	if categoryID == "" || categoryID == model.CategoryAll {
		return ViewAll
	}
	return View(categoryID)
}

// OrderOf returns the app's position in the given view. A missing
// categoryOrder entry is an invariant violation in committed state; we fall
// back to the global order so sorting stays deterministic on dirty data.
func OrderOf(a *model.App, v View) int {
	if v == ViewAll {
		return a.GlobalOrder
	}
	if a.CategoryOrder != nil {
		if n, ok := a.CategoryOrder[string(v)]; ok {
			return n
		}
	}
	return a.GlobalOrder
}

func setOrder(a *model.App, v View, n int) {
	if v == ViewAll {
		a.GlobalOrder = n
		return
	}
	if a.CategoryOrder == nil {
		a.CategoryOrder = map[string]int{}
	}
	a.CategoryOrder[string(v)] = n
}

// AppsInView returns pointers to the snapshot's apps belonging to the view,
// sorted by the view's order field. For ViewAll that is every app.
func (db *DB) AppsInView(v View) []*model.App {
	var out []*model.App
	for i := range db.Apps {
		if v == ViewAll || db.Apps[i].CategoryID == string(v) {
			out = append(out, &db.Apps[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := OrderOf(out[i], v), OrderOf(out[j], v)
		if oi != oj {
			return oi < oj
		}
		if out[i].GlobalOrder != out[j].GlobalOrder {
			return out[i].GlobalOrder < out[j].GlobalOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AssignAppendOrders gives a new app its order fields: append at the end of
// the global list and at the end of its own category's list.
func AssignAppendOrders(db *DB, a *model.App) {
	a.GlobalOrder = len(db.Apps)
	inCat := 0
	for i := range db.Apps {
		if db.Apps[i].CategoryID == a.CategoryID {
			inCat++
		}
	}
	a.CategoryOrder = map[string]int{a.CategoryID: inCat}
}

// RenumberView assigns 0..len-1 to exactly the view's order field, by
// sequence position. Order fields for every other view are left untouched,
// so reordering within one category never perturbs the global order or any
// other category's order.
func RenumberView(apps []*model.App, v View) {
	for i, a := range apps {
		setOrder(a, v, i)
	}
}

// NormalizeOrders re-densifies every order sequence after structural edits
// (deletes, category changes): globalOrder becomes exactly {0..N-1} and each
// category's categoryOrder becomes exactly {0..count-1}. Relative order is
// preserved. Entries referencing categories that no longer exist are pruned.
func NormalizeOrders(db *DB) {
	all := db.AppsInView(ViewAll)
	RenumberView(all, ViewAll)

	byCat := map[string][]*model.App{}
	for i := range db.Apps {
		a := &db.Apps[i]
		byCat[a.CategoryID] = append(byCat[a.CategoryID], a)
	}
	for cat, members := range byCat {
		if cat == model.CategoryAll {
			// Uncategorized apps have no category view of their own: their
			// real coordinate is the global order renumbered above. Their
			// bookkeeping entries are kept dense directly, since setOrder
			// would write the global field for the sentinel.
			sort.SliceStable(members, func(i, j int) bool {
				return members[i].GlobalOrder < members[j].GlobalOrder
			})
			for i, a := range members {
				if a.CategoryOrder == nil {
					a.CategoryOrder = map[string]int{}
				}
				a.CategoryOrder[model.CategoryAll] = i
			}
			continue
		}
		v := View(cat)
		sort.SliceStable(members, func(i, j int) bool {
			oi, oj := OrderOf(members[i], v), OrderOf(members[j], v)
			if oi != oj {
				return oi < oj
			}
			return members[i].GlobalOrder < members[j].GlobalOrder
		})
		RenumberView(members, v)
	}

	live := map[string]bool{model.CategoryAll: true}
	for _, c := range db.Categories {
		live[c.ID] = true
	}
	for i := range db.Apps {
		a := &db.Apps[i]
		for cat := range a.CategoryOrder {
			if cat != a.CategoryID && !live[cat] {
				delete(a.CategoryOrder, cat)
			}
		}
	}
}
