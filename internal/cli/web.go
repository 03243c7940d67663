package cli

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"linkdeck/internal/store"
	"linkdeck/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the browser UI (server-rendered, live updates over SSE)",
		Example: strings.TrimSpace(`
# Serve the current workspace on localhost
linkdeck web --addr 127.0.0.1:3344

# Serve a specific workspace
linkdeck --workspace personal web --addr :3344
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				if cfg, err := store.LoadConfig(); err == nil && cfg.WebAddr != "" {
					listenAddr = cfg.WebAddr
				} else {
					listenAddr = "127.0.0.1:3344"
				}
			}

			srv, err := web.NewServer(web.ServerConfig{
				Dir:       dir,
				Workspace: strings.TrimSpace(app.Workspace),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			_ = writeOut(cmd, app, map[string]any{"data": map[string]any{
				"addr":      actualAddr,
				"url":       url,
				"workspace": strings.TrimSpace(app.Workspace),
				"dir":       dir,
			}})
			fmt.Fprintf(cmd.ErrOrStderr(), "Linkdeck web running at %s (workspace=%s)\n", url, strings.TrimSpace(app.Workspace))

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default from config or 127.0.0.1:3344)")
	return cmd
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	if app.Workspace != "" {
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return "", err
		}
		app.Dir = d
		return d, nil
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
		d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
		if err != nil {
			return "", err
		}
		app.Workspace = cfg.CurrentWorkspace
		app.Dir = d
		return d, nil
	}
	app.Workspace = "default"
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}
