package store

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to the UI boundary. None of these are fatal: the
// store and the last good snapshot remain usable after any single failure.
var (
	// ErrImportParse means the import payload was not readable JSON at all.
	ErrImportParse = errors.New("import: not valid JSON")

	// ErrImportInvalid means the JSON parsed but failed shape validation.
	// The import is rejected wholesale; nothing is persisted.
	ErrImportInvalid = errors.New("import: invalid document")
)

// writeError wraps a failed single-table write so callers can report it.
func writeError(table string, err error) error {
	return fmt.Errorf("write %s: %w", table, err)
}

// txError wraps a failed multi-entity transaction. The persisted tables are
// exactly as they were before the attempt.
func txError(err error) error {
	return fmt.Errorf("transaction failed: %w", err)
}
