// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip confirmation prompts",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand initializes the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// authCommand handles account and session operations.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage account and session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and open a session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (min 6 characters)", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in and save the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Close the session",
				Flags:  []cli.Flag{yesFlag()},
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
		},
	}
}

// songsCommand handles song CRUD and the favorite toggle.
func songsCommand(r *Runner) *cli.Command {
	draftFlags := []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Song title"},
		&cli.StringSliceFlag{Name: "artist", Usage: "Artist name (repeatable)"},
		&cli.StringFlag{Name: "duration", Usage: "Duration, e.g. 4:12"},
		&cli.StringSliceFlag{Name: "style", Usage: "Musical style (repeatable)"},
		&cli.StringSliceFlag{Name: "category", Usage: "Category name (repeatable)"},
		&cli.StringFlag{Name: "key", Usage: "Musical key"},
		&cli.StringFlag{Name: "url", Usage: "YouTube URL"},
	}

	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"song"},
		Usage:   "Manage the song library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs, filtered and sorted by title",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search in title, artists, styles and categories"},
					&cli.StringFlag{Name: "category", Usage: "Only songs in this category (Favoritas included)"},
					&cli.StringFlag{Name: "artist", Usage: "Only songs by this artist"},
					&cli.StringFlag{Name: "style", Usage: "Only songs in this style"},
				}, jsonFlags()...),
				Action: r.SongsList,
			},
			{
				Name:      "show",
				Usage:     "Show one song with its related songs",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.SongsShow,
			},
			{
				Name:   "add",
				Usage:  "Add a song to the library",
				Flags:  draftFlags,
				Action: r.SongsAdd,
			},
			{
				Name:      "edit",
				Usage:     "Edit an existing song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     draftFlags,
				Action:    r.SongsEdit,
			},
			{
				Name:      "delete",
				Usage:     "Delete a song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{yesFlag()},
				Action:    r.SongsDelete,
			},
			{
				Name:      "favorite",
				Aliases:   []string{"fav"},
				Usage:     "Toggle a song's favorite flag",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.SongsFavorite,
			},
		},
	}
}

// artistsCommand shows the library grouped by artist.
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "artists",
		Usage:  "List songs grouped by artist",
		Flags:  jsonFlags(),
		Action: r.Artists,
	}
}

// stylesCommand shows the library grouped by style.
func stylesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "styles",
		Usage:  "List songs grouped by style",
		Flags:  jsonFlags(),
		Action: r.Styles,
	}
}

// categoriesCommand handles category management.
func categoriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "categories",
		Aliases: []string{"cat"},
		Usage:   "Manage categories",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List categories with song counts",
				Flags:  jsonFlags(),
				Action: r.CategoriesList,
			},
			{
				Name:      "add",
				Usage:     "Create a category (prompts when no name is given)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.CategoriesAdd,
			},
			{
				Name:      "rename",
				Usage:     "Rename a category and rewrite every referencing song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "New category name (prompts when omitted)"},
				},
				Action: r.CategoriesRename,
			},
			{
				Name:      "delete",
				Usage:     "Delete a category; songs keep everything else",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags:     []cli.Flag{yesFlag()},
				Action:    r.CategoriesDelete,
			},
			{
				Name:      "manage",
				Usage:     "Set exactly which songs belong to a category",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "song", Usage: "Song id that should be a member (repeatable)"},
				},
				Action: r.CategoriesManage,
			},
		},
	}
}

// backupCommand handles CSV export and import.
func backupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Export and import the library as CSV",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write the library to a CSV backup file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path (default: karaoke-backup-<date>.csv)"},
					&cli.BoolFlag{Name: "stdout", Usage: "Write CSV to stdout instead of a file"},
				},
				Action: r.BackupExport,
			},
			{
				Name:      "import",
				Usage:     "Merge a CSV backup into the library",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Action:    r.BackupImport,
			},
		},
	}
}
