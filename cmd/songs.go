package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/karalib/internal/catalog"
	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
	"github.com/desertthunder/karalib/internal/ui"
	"github.com/urfave/cli/v3"
)

// SongsList prints the filtered library, optionally narrowed to a category,
// artist or style.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library) error {
		songs := catalog.Filter(lib.engine.Songs(), cmd.String("query"))

		heading := "Biblioteca"
		switch {
		case cmd.String("category") != "":
			heading = cmd.String("category")
			songs = catalog.InCategory(songs, cmd.String("category"))
		case cmd.String("artist") != "":
			heading = cmd.String("artist")
			songs = catalog.ByArtist(songs, cmd.String("artist"))
		case cmd.String("style") != "":
			heading = cmd.String("style")
			songs = catalog.ByStyle(songs, cmd.String("style"))
		}

		if cmd.Bool("json") {
			return r.writeJSON(songs, cmd.Bool("pretty"))
		}
		return r.writePlain("%s", ui.SongList(heading, songs))
	})
}

// SongsShow prints one song in full, with its related songs.
func (r *Runner) SongsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		if err := lib.engine.Select(id); err != nil {
			return err
		}
		song := lib.engine.Selected()
		related := catalog.Related(lib.engine.Songs(), *song)

		if cmd.Bool("json") {
			return r.writeJSON(map[string]any{"song": song, "related": related}, cmd.Bool("pretty"))
		}
		return r.writePlain("%s", ui.SongDetails(*song, related))
	})
}

// draftFromFlags builds a song draft from the shared add/edit flag set,
// starting from base so edits keep unspecified fields.
func draftFromFlags(cmd *cli.Command, base models.Song) models.Song {
	draft := base.Clone()
	if v := cmd.String("title"); v != "" {
		draft.Title = v
	}
	if v := cmd.StringSlice("artist"); len(v) > 0 {
		draft.Artists = v
	}
	if v := cmd.String("duration"); v != "" {
		draft.Duration = v
	}
	if v := cmd.StringSlice("style"); len(v) > 0 {
		draft.Styles = v
	}
	if v := cmd.StringSlice("category"); len(v) > 0 {
		draft.Categories = v
	}
	if v := cmd.String("key"); v != "" {
		draft.Key = v
	}
	if v := cmd.String("url"); v != "" {
		draft.YouTubeURL = v
	}
	return draft
}

// SongsAdd creates a song from flags, applying library defaults.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library) error {
		draft := draftFromFlags(cmd, models.Song{})
		saved, err := lib.engine.SaveSongDraft(ctx, draft, "", nil)
		if err != nil {
			return err
		}
		r.writePlain("%s\n", ui.Success(fmt.Sprintf("✓ Música adicionada: %s", saved.Title)))
		return r.writePlain("ID: %s\n", saved.ID)
	})
}

// SongsEdit updates an existing song, keeping fields the flags omit.
func (r *Runner) SongsEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		var base *models.Song
		for _, song := range lib.engine.Songs() {
			if song.ID == id {
				s := song.Clone()
				base = &s
				break
			}
		}
		if base == nil {
			return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
		}

		draft := draftFromFlags(cmd, *base)
		saved, err := lib.engine.SaveSongDraft(ctx, draft, id, nil)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success(fmt.Sprintf("✓ Música atualizada: %s", saved.Title)))
	})
}

// SongsDelete removes a song after confirmation.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	r.dialog.assumeYes = cmd.Bool("yes")

	return r.withLibrary(ctx, func(lib *library) error {
		var target *models.Song
		for _, song := range lib.engine.Songs() {
			if song.ID == id {
				s := song.Clone()
				target = &s
				break
			}
		}
		if target == nil {
			return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
		}

		if err := lib.engine.Delete(ctx, *target); err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success("✓ Música excluída"))
	})
}

// SongsFavorite toggles a song's favorite flag.
func (r *Runner) SongsFavorite(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		if err := lib.engine.ToggleFavorite(ctx, id); err != nil {
			return err
		}

		for _, song := range lib.engine.Songs() {
			if song.ID == id {
				if song.IsFavorite {
					return r.writePlain("%s\n", ui.Success(fmt.Sprintf("★ %s marcada como favorita", song.Title)))
				}
				return r.writePlain("%s\n", ui.Success(fmt.Sprintf("☆ %s removida das favoritas", song.Title)))
			}
		}
		return nil
	})
}
