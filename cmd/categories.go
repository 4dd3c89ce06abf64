package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
	"github.com/desertthunder/karalib/internal/ui"
	"github.com/urfave/cli/v3"
)

// CategoriesList prints categories with song counts, favorites first.
func (r *Runner) CategoriesList(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library) error {
		if cmd.Bool("json") {
			return r.writeJSON(lib.engine.Categories(), cmd.Bool("pretty"))
		}
		return r.writePlain("%s", ui.CategoryList(lib.engine.Categories(), lib.engine.Songs()))
	})
}

// CategoriesAdd creates a category, taking the name from the argument or the
// dialog prompt.
func (r *Runner) CategoriesAdd(ctx context.Context, cmd *cli.Command) error {
	if name := cmd.StringArg("name"); name != "" {
		r.dialog.queuePrompt(name)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		if err := lib.engine.AddCategory(ctx); err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success("✓ Categoria criada"))
	})
}

// findCategory resolves a category argument by name.
func findCategory(categories []models.Category, name string) (models.Category, error) {
	for _, cat := range categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return models.Category{}, fmt.Errorf("%w: %s", shared.ErrCategoryNotFound, name)
}

// CategoriesRename renames a category and rewrites every referencing song.
func (r *Runner) CategoriesRename(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}
	if to := cmd.String("to"); to != "" {
		r.dialog.queuePrompt(to)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		cat, err := findCategory(lib.engine.Categories(), name)
		if err != nil {
			return err
		}

		if err := lib.engine.RenameCategory(ctx, cat, nil); err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success("✓ Categoria renomeada"))
	})
}

// CategoriesDelete deletes a category after confirmation; songs are kept.
func (r *Runner) CategoriesDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}
	r.dialog.assumeYes = cmd.Bool("yes")

	return r.withLibrary(ctx, func(lib *library) error {
		cat, err := findCategory(lib.engine.Categories(), name)
		if err != nil {
			return err
		}

		if err := lib.engine.DeleteCategory(ctx, cat, nil); err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success("✓ Categoria excluída"))
	})
}

// CategoriesManage reconciles category membership to exactly the given songs.
func (r *Runner) CategoriesManage(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		if _, err := findCategory(lib.engine.Categories(), name); err != nil {
			return err
		}

		selected := make(map[string]bool)
		for _, id := range cmd.StringSlice("song") {
			selected[id] = true
		}

		if err := lib.engine.UpdateMembership(ctx, name, selected, nil); err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success("✓ Músicas da categoria atualizadas"))
	})
}
