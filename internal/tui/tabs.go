package tui

import (
	"linkdeck/internal/model"
	"linkdeck/internal/store"
)

type tab struct {
	id    string
	label string
}

func tabsFor(db *store.DB) []tab {
	tabs := []tab{{id: model.CategoryAll, label: "All"}}
	for _, c := range db.Categories {
		tabs = append(tabs, tab{id: c.ID, label: iconLabel(c.Icon) + " " + c.Name})
	}
	return tabs
}

func tabIndex(tabs []tab, id string) int {
	for i, t := range tabs {
		if t.id == id {
			return i
		}
	}
	return 0
}

// cycleTab wraps around at both ends.
func cycleTab(n, cur, delta int) int {
	if n <= 0 {
		return 0
	}
	return ((cur+delta)%n + n) % n
}

// neighborID returns the id of the app delta positions away from idx in the
// current arrangement, or false at the edge.
func neighborID(apps []*model.App, idx, delta int) (string, bool) {
	j := idx + delta
	if j < 0 || j >= len(apps) {
		return "", false
	}
	return apps[j].ID, true
}

// redirectView picks the view to land on after a reload removed the current
// one: the nearest predecessor tab that still exists, else the all view.
func redirectView(oldTabs []tab, cur string, exists func(string) bool) string {
	if cur == model.CategoryAll || exists(cur) {
		return cur
	}
	idx := -1
	for i, t := range oldTabs {
		if t.id == cur {
			idx = i
			break
		}
	}
	for i := idx - 1; i > 0; i-- {
		if exists(oldTabs[i].id) {
			return oldTabs[i].id
		}
	}
	return model.CategoryAll
}
