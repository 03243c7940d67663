package model

import "time"

// CategoryAll is the sentinel filter/category id meaning "no category filter".
// Apps may carry it as their CategoryID to mean "uncategorized".
const CategoryAll = "all"

// App is a user-added web-app shortcut.
//
// Icon is a plain string tagged by prefix convention:
// - "data:..."  embedded image payload
// - "http..."   remote favicon URL
// - otherwise   symbolic icon name resolved by the UI layer
// Callers (favicon fetch, upload forms) write into it directly, so it stays
// a string rather than an enum.
type App struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Icon       string `json:"icon"`
	CategoryID string `json:"categoryId"`
	Clip       *bool  `json:"clip,omitempty"`

	// GlobalOrder is the app's position in the unfiltered all-apps view.
	// Dense and unique across the whole collection (0..N-1).
	GlobalOrder int `json:"globalOrder"`

	// CategoryOrder maps categoryId -> position within that category's
	// filtered view. Normally holds exactly one entry (the app's own
	// CategoryID); kept as a general map to tolerate legacy data.
	CategoryOrder map[string]int `json:"categoryOrder"`

	// LegacyOrder is the pre-upgrade single order field. Wire-only: the
	// store's schema upgrade and the import codec consume it, then drop it.
	LegacyOrder *int `json:"order,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Category is a user-defined named grouping with its own display order.
// Order is dense and unique across all categories (filter-tab order).
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}
