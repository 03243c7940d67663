package store

import (
	"context"
	"encoding/json"
	"fmt"

	"linkdeck/internal/model"
)

// ExportJSON serializes the full snapshot to the backup document shape:
// {"apps":[...],"categories":[...]}. Filenames and timestamps are the
// caller's concern.
func ExportJSON(db *DB) ([]byte, error) {
	return json.MarshalIndent(db, "", "  ")
}

// ImportJSON parses and validates a backup document. Both the current layout
// (globalOrder + categoryOrder) and the legacy single-`order` layout are
// accepted; legacy apps are normalized exactly like the store's schema
// upgrade. Any malformed element rejects the whole import: the returned
// error is ErrImportParse for unreadable JSON and ErrImportInvalid for shape
// violations, and nothing is persisted.
func ImportJSON(data []byte) (*DB, error) {
	var raw struct {
		Apps       json.RawMessage `json:"apps"`
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}

	var rawApps []json.RawMessage
	if len(raw.Apps) == 0 || json.Unmarshal(raw.Apps, &rawApps) != nil {
		return nil, fmt.Errorf("%w: apps must be an array", ErrImportInvalid)
	}
	var rawCats []json.RawMessage
	if len(raw.Categories) == 0 || json.Unmarshal(raw.Categories, &rawCats) != nil {
		return nil, fmt.Errorf("%w: categories must be an array", ErrImportInvalid)
	}

	out := &DB{Apps: []model.App{}, Categories: []model.Category{}}

	for i, r := range rawApps {
		if err := checkAppShape(r); err != nil {
			return nil, fmt.Errorf("%w: apps[%d]: %v", ErrImportInvalid, i, err)
		}
		var a model.App
		if err := json.Unmarshal(r, &a); err != nil {
			return nil, fmt.Errorf("%w: apps[%d]: %v", ErrImportInvalid, i, err)
		}
		out.Apps = append(out.Apps, a)
	}
	for i, r := range rawCats {
		if err := checkCategoryShape(r); err != nil {
			return nil, fmt.Errorf("%w: categories[%d]: %v", ErrImportInvalid, i, err)
		}
		var c model.Category
		if err := json.Unmarshal(r, &c); err != nil {
			return nil, fmt.Errorf("%w: categories[%d]: %v", ErrImportInvalid, i, err)
		}
		out.Categories = append(out.Categories, c)
	}

	upgradeLegacyOrders(out)
	return out, nil
}

// ImportReplace parses data and, on success, replaces the entire persisted
// state (clear-then-bulk-insert) inside one transaction. No partial import:
// a validation or write failure leaves both tables exactly as they were.
func (s Store) ImportReplace(ctx context.Context, db *DB, data []byte) error {
	next, err := ImportJSON(data)
	if err != nil {
		return err
	}
	if err := s.SaveSQLite(ctx, next); err != nil {
		return err
	}
	*db = *next
	return nil
}

func checkAppShape(r json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r, &fields); err != nil {
		return fmt.Errorf("not an object")
	}
	for _, k := range []string{"id", "name", "url", "icon", "categoryId"} {
		if isMissing(fields[k]) {
			return fmt.Errorf("missing %q", k)
		}
	}
	if !isMissing(fields["order"]) {
		return nil // legacy layout
	}
	if isMissing(fields["globalOrder"]) || isMissing(fields["categoryOrder"]) {
		return fmt.Errorf("needs either legacy \"order\" or both \"globalOrder\" and \"categoryOrder\"")
	}
	return nil
}

func checkCategoryShape(r json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r, &fields); err != nil {
		return fmt.Errorf("not an object")
	}
	for _, k := range []string{"id", "name", "icon", "order"} {
		if isMissing(fields[k]) {
			return fmt.Errorf("missing %q", k)
		}
	}
	return nil
}

func isMissing(b json.RawMessage) bool {
	if len(b) == 0 {
		return true
	}
	s := string(b)
	return s == "null"
}
