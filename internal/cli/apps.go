package cli

import (
	"errors"

	"linkdeck/internal/favicon"
	"linkdeck/internal/model"
	"linkdeck/internal/store"

	"github.com/spf13/cobra"
)

func newAppsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage apps (links)",
	}
	cmd.AddCommand(newAppsListCmd(app))
	cmd.AddCommand(newAppsAddCmd(app))
	cmd.AddCommand(newAppsEditCmd(app))
	cmd.AddCommand(newAppsDeleteCmd(app))
	cmd.AddCommand(newAppsMoveCmd(app))
	return cmd
}

func newAppsListCmd(app *App) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List apps in view order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v := store.ViewFor(view)
			if v != store.ViewAll && !db.HasCategory(string(v)) {
				return writeErr(cmd, errNotFound("category", view))
			}
			var out []model.App
			for _, a := range db.AppsInView(v) {
				out = append(out, *a)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"view": string(v), "apps": out}})
		},
	}
	cmd.Flags().StringVar(&view, "view", "all", "View to list ('all' or a category id)")
	return cmd
}

func newAppsAddCmd(app *App) *cobra.Command {
	var name, url, icon, category string
	var clip, fetchMeta bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an app (appended to the end of its views)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if url == "" {
				return writeErr(cmd, errors.New("--url is required"))
			}
			if fetchMeta && (name == "" || icon == "") {
				meta, err := favicon.New().Fetch(cmd.Context(), url)
				if err != nil {
					return writeErr(cmd, err)
				}
				if name == "" {
					name = meta.Title
				}
				if icon == "" {
					icon = meta.IconURL
				}
			}
			if name == "" {
				return writeErr(cmd, errors.New("--name is required (or pass --fetch-meta)"))
			}
			if category != "" && category != model.CategoryAll && !db.HasCategory(category) {
				return writeErr(cmd, errNotFound("category", category))
			}
			a := model.App{Name: name, URL: url, Icon: icon, CategoryID: category}
			if cmd.Flags().Changed("clip") {
				a.Clip = &clip
			}
			created, err := s.AddApp(cmd.Context(), db, a)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"app": created}})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&url, "url", "", "Link URL")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon (URL, emoji, or builtin name)")
	cmd.Flags().StringVar(&category, "category", "", "Category id (default: 'all')")
	cmd.Flags().BoolVar(&clip, "clip", false, "Open in a clipped (chromeless) window")
	cmd.Flags().BoolVar(&fetchMeta, "fetch-meta", false, "Fill missing name/icon from the page")
	return cmd
}

func newAppsEditCmd(app *App) *cobra.Command {
	var name, url, icon, category string
	var clip bool
	cmd := &cobra.Command{
		Use:   "edit <app-id>",
		Short: "Edit an app (changing category appends it to the new category)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			cur, ok := db.FindApp(id)
			if !ok {
				return writeErr(cmd, errNotFound("app", id))
			}
			next := *cur
			if cmd.Flags().Changed("name") {
				next.Name = name
			}
			if cmd.Flags().Changed("url") {
				next.URL = url
			}
			if cmd.Flags().Changed("icon") {
				next.Icon = icon
			}
			if cmd.Flags().Changed("category") {
				if category != model.CategoryAll && !db.HasCategory(category) {
					return writeErr(cmd, errNotFound("category", category))
				}
				next.CategoryID = category
			}
			if cmd.Flags().Changed("clip") {
				next.Clip = &clip
			}
			if err := s.EditApp(cmd.Context(), db, next); err != nil {
				return writeErr(cmd, err)
			}
			updated, _ := db.FindApp(id)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"app": updated}})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&url, "url", "", "Link URL")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon (URL, emoji, or builtin name)")
	cmd.Flags().StringVar(&category, "category", "", "Category id ('all' for uncategorized)")
	cmd.Flags().BoolVar(&clip, "clip", false, "Open in a clipped (chromeless) window")
	return cmd
}

func newAppsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <app-id>",
		Short: "Delete an app (remaining apps are renumbered)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if _, ok := db.FindApp(id); !ok {
				return writeErr(cmd, errNotFound("app", id))
			}
			if err := s.DeleteApp(cmd.Context(), db, id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
	return cmd
}

func newAppsMoveCmd(app *App) *cobra.Command {
	var target, view string
	cmd := &cobra.Command{
		Use:   "move <app-id>",
		Short: "Move an app to another app's position within one view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if target == "" {
				return writeErr(cmd, errors.New("--target is required"))
			}
			id := args[0]
			if _, ok := db.FindApp(id); !ok {
				return writeErr(cmd, errNotFound("app", id))
			}
			if _, ok := db.FindApp(target); !ok {
				return writeErr(cmd, errNotFound("app", target))
			}
			v := store.ViewFor(view)
			if v != store.ViewAll && !db.HasCategory(string(v)) {
				return writeErr(cmd, errNotFound("category", view))
			}
			moved, err := s.CommitMove(cmd.Context(), db, v, id, target)
			if err != nil {
				return writeErr(cmd, err)
			}
			var out []model.App
			for _, a := range db.AppsInView(v) {
				out = append(out, *a)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"moved": moved,
				"view":  string(v),
				"apps":  out,
			}})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "App id whose position the moved app takes")
	cmd.Flags().StringVar(&view, "view", "all", "View to reorder within ('all' or a category id)")
	return cmd
}
