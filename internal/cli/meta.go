package cli

import (
	"linkdeck/internal/favicon"

	"github.com/spf13/cobra"
)

func newMetaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "meta <url>",
		Short: "Look up page title and icon for a URL (best-effort)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := favicon.New().Fetch(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": meta})
		},
	}
}
