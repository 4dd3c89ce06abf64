package main

import (
	"context"

	"github.com/desertthunder/karalib/internal/catalog"
	"github.com/desertthunder/karalib/internal/ui"
	"github.com/urfave/cli/v3"
)

// Artists prints the library grouped by artist.
func (r *Runner) Artists(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library) error {
		group := catalog.GroupByArtist(catalog.Filter(lib.engine.Songs(), ""))

		if cmd.Bool("json") {
			return r.writeJSON(group.Songs, cmd.Bool("pretty"))
		}
		return r.writePlain("%s", ui.Grouped("Artistas", group))
	})
}

// Styles prints the library grouped by style.
func (r *Runner) Styles(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library) error {
		group := catalog.GroupByStyle(catalog.Filter(lib.engine.Songs(), ""))

		if cmd.Bool("json") {
			return r.writeJSON(group.Songs, cmd.Bool("pretty"))
		}
		return r.writePlain("%s", ui.Grouped("Estilos", group))
	})
}
