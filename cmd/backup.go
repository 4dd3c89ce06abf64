package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/karalib/internal/shared"
	"github.com/desertthunder/karalib/internal/ui"
	"github.com/urfave/cli/v3"
)

// BackupExport writes the library to a CSV file, or to stdout with --stdout.
func (r *Runner) BackupExport(ctx context.Context, cmd *cli.Command) error {
	return r.withLibrary(ctx, func(lib *library) error {
		if cmd.Bool("stdout") {
			return lib.engine.ExportCSV(r.output, nil)
		}

		path, err := lib.engine.ExportBackup(cmd.String("output"), nil)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success(fmt.Sprintf("✓ Backup salvo em %s", path)))
	})
}

// BackupImport merges a CSV backup file into the library.
func (r *Runner) BackupImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: backup file path", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	return r.withLibrary(ctx, func(lib *library) error {
		count, err := lib.engine.ImportCSV(ctx, string(data), nil)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", ui.Success(fmt.Sprintf("✓ %d músicas importadas", count)))
	})
}
