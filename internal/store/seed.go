package store

import (
	"time"

	"linkdeck/internal/model"
)

// seedSnapshot builds the built-in starter dataset written to a brand-new
// store. Seeding happens at most once: any existing app or category row
// suppresses it forever.
func seedSnapshot() *DB {
	now := time.Now().UTC()
	clip := func(b bool) *bool { return &b }
	favicon := func(domain string) string {
		return "https://www.google.com/s2/favicons?sz=128&domain=" + domain
	}

	db := &DB{
		Categories: []model.Category{
			{ID: "social", Name: "Social", Icon: "Users", Order: 0},
			{ID: "design", Name: "Design", Icon: "Figma", Order: 1},
			{ID: "dev", Name: "Development", Icon: "Code", Order: 2},
			{ID: "entertainment", Name: "Entertainment", Icon: "Clapperboard", Order: 3},
		},
		Apps: []model.App{
			{ID: "1", Name: "Facebook", URL: "https://facebook.com", Icon: favicon("facebook.com"), CategoryID: "social", Clip: clip(true)},
			{ID: "2", Name: "Instagram", URL: "https://instagram.com", Icon: favicon("instagram.com"), CategoryID: "social", Clip: clip(true)},
			{ID: "3", Name: "Twitter", URL: "https://x.com", Icon: favicon("x.com"), CategoryID: "social", Clip: clip(true)},
			{ID: "4", Name: "Figma", URL: "https://figma.com", Icon: "Figma", CategoryID: "design", Clip: clip(false)},
			{ID: "5", Name: "YouTube", URL: "https://youtube.com", Icon: favicon("youtube.com"), CategoryID: "entertainment", Clip: clip(true)},
			{ID: "6", Name: "Spotify", URL: "https://spotify.com", Icon: favicon("spotify.com"), CategoryID: "entertainment", Clip: clip(true)},
			{ID: "7", Name: "Github", URL: "https://github.com", Icon: "Github", CategoryID: "dev", Clip: clip(false)},
			{ID: "8", Name: "Google", URL: "https://google.com", Icon: favicon("google.com"), CategoryID: model.CategoryAll, Clip: clip(true)},
		},
	}

	counts := map[string]int{}
	for i := range db.Apps {
		a := &db.Apps[i]
		a.GlobalOrder = i
		a.CategoryOrder = map[string]int{a.CategoryID: counts[a.CategoryID]}
		counts[a.CategoryID]++
		a.CreatedAt = now
		a.UpdatedAt = now
	}
	return db
}
