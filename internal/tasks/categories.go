package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
)

// AddCategory prompts for a name and creates the category. Empty input is a
// silent no-op; a duplicate name gets its own alert so the user can tell it
// apart from a store failure.
func (e *LibraryEngine) AddCategory(ctx context.Context) error {
	name, err := e.dialog.Prompt("Digite o nome da categoria:", "")
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	name = trimName(name)
	if name == "" {
		return nil
	}

	e.setLoading(true)
	defer e.setLoading(false)

	if _, err := e.cats.Create(ctx, e.userID, name); err != nil {
		e.logger.Error("failed to create category", "name", name, "error", err)
		if errors.Is(err, shared.ErrCategoryExists) {
			e.dialog.Alert("Categoria já existe.")
		} else {
			e.dialog.Alert("Erro ao criar categoria.")
		}
		return err
	}

	return e.refetchCategories(ctx)
}

// RenameCategory prompts for a new name (defaulting to the current one),
// renames the record, then rewrites the stored name on every referencing
// song. Empty or unchanged input is a no-op.
//
// A partial fan-out failure leaves the renamed record in place: songs still
// carrying the old name simply drop out of the category until a later
// rename or membership edit repairs them.
func (e *LibraryEngine) RenameCategory(ctx context.Context, cat models.Category, progress chan<- ProgressUpdate) error {
	name, err := e.dialog.Prompt(fmt.Sprintf("Renomear %q para:", cat.Name), cat.Name)
	if err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	name = trimName(name)
	if name == "" || name == cat.Name {
		return nil
	}

	e.setLoading(true)
	defer e.setLoading(false)

	if err := e.cats.Rename(ctx, cat.ID, name); err != nil {
		e.logger.Error("failed to rename category", "category", cat.ID, "error", err)
		if errors.Is(err, shared.ErrCategoryExists) {
			e.dialog.Alert("Categoria já existe.")
		} else {
			e.dialog.Alert("Erro ao renomear categoria.")
		}
		return err
	}

	affected := e.songsReferencing(cat.Name)
	err = e.fanOut(ctx, progress, affected, func(ctx context.Context, song models.Song) error {
		next := make([]string, len(song.Categories))
		for i, c := range song.Categories {
			if c == cat.Name {
				next[i] = name
			} else {
				next[i] = c
			}
		}
		return e.store.SetCategories(ctx, song.ID, next)
	})
	if err != nil {
		e.logger.Error("category rename fan-out failed", "category", cat.ID, "error", err)
		e.dialog.Alert("Erro ao renomear categoria.")
		return fmt.Errorf("failed to rewrite songs for rename: %w", err)
	}

	return errors.Join(e.refetchCategories(ctx), e.refetchSongs(ctx))
}

// DeleteCategory removes a category after confirmation and strips its name
// from every referencing song. Songs are never deleted.
func (e *LibraryEngine) DeleteCategory(ctx context.Context, cat models.Category, progress chan<- ProgressUpdate) error {
	ok, err := e.dialog.Confirm(fmt.Sprintf("Tem certeza que deseja excluir %q? As músicas não serão apagadas.", cat.Name))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return nil
	}

	e.setLoading(true)
	defer e.setLoading(false)

	if err := e.cats.Delete(ctx, cat.ID); err != nil {
		e.logger.Error("failed to delete category", "category", cat.ID, "error", err)
		e.dialog.Alert("Erro ao excluir categoria.")
		return err
	}

	affected := e.songsReferencing(cat.Name)
	err = e.fanOut(ctx, progress, affected, func(ctx context.Context, song models.Song) error {
		next := make([]string, 0, len(song.Categories))
		for _, c := range song.Categories {
			if c != cat.Name {
				next = append(next, c)
			}
		}
		return e.store.SetCategories(ctx, song.ID, next)
	})
	if err != nil {
		e.logger.Error("category delete fan-out failed", "category", cat.ID, "error", err)
		e.dialog.Alert("Erro ao excluir categoria.")
		return fmt.Errorf("failed to rewrite songs for delete: %w", err)
	}

	return errors.Join(e.refetchCategories(ctx), e.refetchSongs(ctx))
}

// UpdateMembership reconciles which songs belong to the named category.
// selected holds the desired member ids over the full library; only songs
// whose membership actually changes issue a store call.
func (e *LibraryEngine) UpdateMembership(ctx context.Context, name string, selected map[string]bool, progress chan<- ProgressUpdate) error {
	e.setLoading(true)
	defer e.setLoading(false)

	e.mu.Lock()
	songs := make([]models.Song, len(e.songs))
	for i, song := range e.songs {
		songs[i] = song.Clone()
	}
	e.mu.Unlock()

	var (
		changed []models.Song
		next    = make(map[string][]string)
	)
	for _, song := range songs {
		isPick := selected[song.ID]
		hasCat := song.HasCategory(name)

		switch {
		case isPick && !hasCat:
			next[song.ID] = append(song.Categories, name)
			changed = append(changed, song)
		case !isPick && hasCat:
			cats := make([]string, 0, len(song.Categories))
			for _, c := range song.Categories {
				if c != name {
					cats = append(cats, c)
				}
			}
			next[song.ID] = cats
			changed = append(changed, song)
		}
	}

	err := e.fanOut(ctx, progress, changed, func(ctx context.Context, song models.Song) error {
		return e.store.SetCategories(ctx, song.ID, next[song.ID])
	})
	if err != nil {
		e.logger.Error("membership update failed", "category", name, "error", err)
		e.dialog.Alert("Erro ao atualizar músicas da categoria.")
		return fmt.Errorf("failed to update membership: %w", err)
	}

	return e.refetchSongs(ctx)
}

// songsReferencing snapshots the songs whose categories list carries name.
func (e *LibraryEngine) songsReferencing(name string) []models.Song {
	e.mu.Lock()
	defer e.mu.Unlock()

	var affected []models.Song
	for _, song := range e.songs {
		if song.HasCategory(name) {
			affected = append(affected, song.Clone())
		}
	}
	return affected
}

// fanOut applies fn to every song concurrently through the worker pool,
// pacing store writes with the engine's rate limiter. It returns the first
// error once all workers settle; already-issued writes are not undone.
func (e *LibraryEngine) fanOut(ctx context.Context, progress chan<- ProgressUpdate, songs []models.Song, fn func(context.Context, models.Song) error) error {
	if len(songs) == 0 {
		return nil
	}

	workers := e.opts.Workers
	if workers > len(songs) {
		workers = len(songs)
	}

	jobs := make(chan models.Song, len(songs))
	errs := make(chan error, len(songs))
	var done atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for song := range jobs {
				if err := e.limiter.Wait(ctx); err != nil {
					errs <- err
					continue
				}
				err := fn(ctx, song)
				errs <- err
				if err == nil {
					e.sendProgress(progress, fanOutUpdate(int(done.Add(1)), len(songs), song.Title))
				}
			}
		}()
	}

	for _, song := range songs {
		jobs <- song
	}
	close(jobs)

	wg.Wait()
	close(errs)

	var firstErr error
	for err := range errs {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
