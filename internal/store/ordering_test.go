package store

import (
	"testing"

	"linkdeck/internal/model"
)

func newApp(id, cat string, global int, catOrder int) model.App {
	return model.App{
		ID:            id,
		Name:          id,
		URL:           "https://" + id + ".example",
		Icon:          "Globe",
		CategoryID:    cat,
		GlobalOrder:   global,
		CategoryOrder: map[string]int{cat: catOrder},
	}
}

// assertDense checks the two ordering invariants: globalOrder is exactly
// {0..N-1} and every category's categoryOrder is exactly {0..count-1}.
func assertDense(t *testing.T, db *DB) {
	t.Helper()

	seenGlobal := map[int]string{}
	for _, a := range db.Apps {
		if prev, dup := seenGlobal[a.GlobalOrder]; dup {
			t.Fatalf("duplicate globalOrder %d (%s and %s)", a.GlobalOrder, prev, a.ID)
		}
		seenGlobal[a.GlobalOrder] = a.ID
	}
	for i := 0; i < len(db.Apps); i++ {
		if _, ok := seenGlobal[i]; !ok {
			t.Fatalf("globalOrder gap at %d (have %v)", i, seenGlobal)
		}
	}

	byCat := map[string]map[int]string{}
	for _, a := range db.Apps {
		n, ok := a.CategoryOrder[a.CategoryID]
		if !ok {
			t.Fatalf("app %s has no categoryOrder entry for its own category %q", a.ID, a.CategoryID)
		}
		if byCat[a.CategoryID] == nil {
			byCat[a.CategoryID] = map[int]string{}
		}
		if prev, dup := byCat[a.CategoryID][n]; dup {
			t.Fatalf("duplicate categoryOrder %d in %q (%s and %s)", n, a.CategoryID, prev, a.ID)
		}
		byCat[a.CategoryID][n] = a.ID
	}
	for cat, orders := range byCat {
		for i := 0; i < len(orders); i++ {
			if _, ok := orders[i]; !ok {
				t.Fatalf("categoryOrder gap at %d in %q (have %v)", i, cat, orders)
			}
		}
	}
}

func TestAssignAppendOrders(t *testing.T) {
	db := &DB{Apps: []model.App{
		newApp("a", "c1", 0, 0),
		newApp("b", "c2", 1, 0),
		newApp("c", "c1", 2, 1),
	}}

	a := model.App{ID: "d", CategoryID: "c1"}
	AssignAppendOrders(db, &a)
	if a.GlobalOrder != 3 {
		t.Fatalf("globalOrder = %d, want 3", a.GlobalOrder)
	}
	if got := a.CategoryOrder["c1"]; got != 2 {
		t.Fatalf("categoryOrder[c1] = %d, want 2", got)
	}
	db.Apps = append(db.Apps, a)
	assertDense(t, db)
}

func TestRenumberView_TouchesOnlyThatView(t *testing.T) {
	db := &DB{Apps: []model.App{
		newApp("a", "c1", 0, 0),
		newApp("b", "c1", 1, 1),
		newApp("c", "c2", 2, 0),
	}}

	list := db.AppsInView(View("c1"))
	// Reverse c1's order.
	list[0], list[1] = list[1], list[0]
	RenumberView(list, View("c1"))

	b, _ := db.FindApp("b")
	if b.CategoryOrder["c1"] != 0 {
		t.Fatalf("b categoryOrder[c1] = %d, want 0", b.CategoryOrder["c1"])
	}
	// Global order and the other category must be untouched.
	for _, id := range []string{"a", "b", "c"} {
		a, _ := db.FindApp(id)
		switch id {
		case "a":
			if a.GlobalOrder != 0 {
				t.Fatalf("a globalOrder changed to %d", a.GlobalOrder)
			}
		case "c":
			if a.GlobalOrder != 2 || a.CategoryOrder["c2"] != 0 {
				t.Fatalf("c perturbed: %+v", a)
			}
		}
	}
}

func TestNormalizeOrders_DensityAfterDelete(t *testing.T) {
	db := &DB{Apps: []model.App{
		newApp("a", "c1", 0, 0),
		newApp("b", "c1", 2, 3), // gaps from a prior delete
		newApp("c", "c2", 5, 1),
	}}
	NormalizeOrders(db)
	assertDense(t, db)

	// Relative order preserved.
	a, _ := db.FindApp("a")
	b, _ := db.FindApp("b")
	if !(a.GlobalOrder < b.GlobalOrder) {
		t.Fatalf("relative global order lost: a=%d b=%d", a.GlobalOrder, b.GlobalOrder)
	}
}

func TestNormalizeOrders_PrunesDeadCategoryEntries(t *testing.T) {
	db := &DB{
		Categories: []model.Category{{ID: "c1", Name: "One", Icon: "Code", Order: 0}},
		Apps: []model.App{
			{ID: "a", Name: "a", URL: "u", Icon: "i", CategoryID: "c1",
				GlobalOrder:   0,
				CategoryOrder: map[string]int{"c1": 0, "ghost": 4, "all": 1}},
		},
	}
	NormalizeOrders(db)
	a, _ := db.FindApp("a")
	if _, ok := a.CategoryOrder["ghost"]; ok {
		t.Fatalf("stale entry for deleted category survived: %v", a.CategoryOrder)
	}
	if _, ok := a.CategoryOrder["all"]; !ok {
		t.Fatalf("sentinel entry should be tolerated: %v", a.CategoryOrder)
	}
}

func TestAppsInView_All(t *testing.T) {
	db := &DB{Apps: []model.App{
		newApp("b", "c1", 1, 1),
		newApp("a", "c1", 0, 0),
		newApp("c", "c2", 2, 0),
	}}
	got := db.AppsInView(ViewAll)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Fatalf("got[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestViewFor(t *testing.T) {
	if ViewFor("") != ViewAll || ViewFor(model.CategoryAll) != ViewAll {
		t.Fatal("empty/all filter must map to ViewAll")
	}
	if ViewFor("c1") != View("c1") {
		t.Fatal("category filter must map to its own view")
	}
}

func TestNormalizeOrders_UncategorizedAppsKeepGlobalPosition(t *testing.T) {
	db := &DB{
		Categories: []model.Category{{ID: "c1", Name: "C1", Order: 0}},
		Apps: []model.App{
			newApp("a", "c1", 0, 0),
			newApp("b", "c1", 1, 1),
			newApp("c", model.CategoryAll, 2, 0),
		},
	}

	NormalizeOrders(db)
	assertDense(t, db)

	c, _ := db.FindApp("c")
	if c.GlobalOrder != 2 {
		t.Fatalf("uncategorized app's globalOrder changed: %d", c.GlobalOrder)
	}
}
