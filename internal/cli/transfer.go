package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"linkdeck/internal/store"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all apps and categories as JSON (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := store.ExportJSON(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			if err := atomic.WriteFile(args[0], bytes.NewReader(b)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"file":       args[0],
				"apps":       len(db.Apps),
				"categories": len(db.Categories),
			}})
		},
	}
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all apps and categories from a JSON export ('-' for stdin)",
		Long:  "Import is all-or-nothing: a malformed document is rejected and the current state is kept. Legacy exports with a single per-app 'order' field are upgraded.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var b []byte
			if args[0] == "-" {
				b, err = readAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.ImportReplace(cmd.Context(), db, b); err != nil {
				switch {
				case errors.Is(err, store.ErrImportParse):
					return writeErr(cmd, fmt.Errorf("not a valid JSON export: %w", err))
				case errors.Is(err, store.ErrImportInvalid):
					return writeErr(cmd, fmt.Errorf("export rejected: %w", err))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"apps":       len(db.Apps),
				"categories": len(db.Categories),
			}})
		},
	}
	return cmd
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
