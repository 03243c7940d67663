package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"linkdeck/internal/model"
	"linkdeck/internal/store"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesAddCmd(app))
	cmd.AddCommand(newCategoriesRenameCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	cmd.AddCommand(newCategoriesMoveCmd(app))
	cmd.AddCommand(newCategoriesApplyCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"categories": db.Categories}})
		},
	}
}

// applyAndReport runs the reconcile and prints the surviving categories plus
// the filter redirect ("" when the caller's filter is untouched).
func applyAndReport(cmd *cobra.Command, app *App, s store.Store, db *store.DB, next []model.Category, filter string) error {
	redirect, err := s.ApplyCategories(cmd.Context(), db, next, filter)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": map[string]any{
		"categories": db.Categories,
		"redirect":   redirect,
	}})
}

func newCategoriesAddCmd(app *App) *cobra.Command {
	var name, icon string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category at the end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if name == "" {
				return writeErr(cmd, errors.New("--name is required"))
			}
			next := append(append([]model.Category{}, db.Categories...), model.Category{
				ID:   store.NewID(),
				Name: name,
				Icon: icon,
			})
			return applyAndReport(cmd, app, s, db, next, "")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().StringVar(&icon, "icon", "", "Category icon (emoji or builtin name)")
	return cmd
}

func newCategoriesRenameCmd(app *App) *cobra.Command {
	var name, icon string
	cmd := &cobra.Command{
		Use:   "rename <category-id>",
		Short: "Rename a category (and/or change its icon)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if !db.HasCategory(id) {
				return writeErr(cmd, errNotFound("category", id))
			}
			next := append([]model.Category{}, db.Categories...)
			for i := range next {
				if next[i].ID != id {
					continue
				}
				if cmd.Flags().Changed("name") {
					next[i].Name = name
				}
				if cmd.Flags().Changed("icon") {
					next[i].Icon = icon
				}
			}
			return applyAndReport(cmd, app, s, db, next, "")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon")
	return cmd
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a category and every app in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if !db.HasCategory(id) {
				return writeErr(cmd, errNotFound("category", id))
			}
			var next []model.Category
			for _, c := range db.Categories {
				if c.ID != id {
					next = append(next, c)
				}
			}
			return applyAndReport(cmd, app, s, db, next, filter)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Currently active view, to compute the redirect for")
	return cmd
}

func newCategoriesMoveCmd(app *App) *cobra.Command {
	var before, after string
	cmd := &cobra.Command{
		Use:   "move <category-id>",
		Short: "Reorder a category among its siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			if !db.HasCategory(id) {
				return writeErr(cmd, errNotFound("category", id))
			}
			if (before == "" && after == "") || (before != "" && after != "") {
				return writeErr(cmd, errors.New("provide exactly one of --before or --after"))
			}
			refID := before
			if after != "" {
				refID = after
			}
			if !db.HasCategory(refID) {
				return writeErr(cmd, errNotFound("category", refID))
			}
			if refID == id {
				return writeErr(cmd, errors.New("cannot move a category relative to itself"))
			}

			var moved model.Category
			var rest []model.Category
			for _, c := range db.Categories {
				if c.ID == id {
					moved = c
				} else {
					rest = append(rest, c)
				}
			}
			var next []model.Category
			for _, c := range rest {
				if c.ID == refID && before != "" {
					next = append(next, moved)
				}
				next = append(next, c)
				if c.ID == refID && after != "" {
					next = append(next, moved)
				}
			}
			return applyAndReport(cmd, app, s, db, next, "")
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Place before this category id")
	cmd.Flags().StringVar(&after, "after", "", "Place after this category id")
	return cmd
}

func newCategoriesApplyCmd(app *App) *cobra.Command {
	var file, filter string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Replace the full category list with a JSON array (from --file or stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var b []byte
			if file != "" {
				b, err = os.ReadFile(file)
			} else {
				b, err = readAll(cmd.InOrStdin())
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			var next []model.Category
			if err := json.Unmarshal(b, &next); err != nil {
				return writeErr(cmd, fmt.Errorf("parse categories: %w", err))
			}
			return applyAndReport(cmd, app, s, db, next, filter)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read the category list from this file instead of stdin")
	cmd.Flags().StringVar(&filter, "filter", "", "Currently active view, to compute the redirect for")
	return cmd
}
