package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
	"golang.org/x/time/rate"
)

// SongStore defines the persistence operations the engine needs for songs.
// Satisfied by [repositories.SongRepository].
type SongStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Song, error)
	Upsert(ctx context.Context, userID string, song models.Song) error
	UpsertBatch(ctx context.Context, userID string, songs []models.Song) error
	SetFavorite(ctx context.Context, id string, favorite bool) error
	SetCategories(ctx context.Context, id string, categories []string) error
	Delete(ctx context.Context, id string) error
}

// CategoryStore defines the persistence operations the engine needs for
// categories. Satisfied by [repositories.CategoryRepository].
type CategoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Category, error)
	Create(ctx context.Context, userID, name string) (models.Category, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// Dialog abstracts user interaction for destructive confirmations, name
// prompts, and error alerts. The CLI layer backs it with stdin/stderr.
type Dialog interface {
	// Confirm asks a yes/no question and reports the answer.
	Confirm(message string) (bool, error)
	// Prompt asks for a line of input with an optional default value.
	Prompt(message, defaultValue string) (string, error)
	// Alert shows a message that requires no answer.
	Alert(message string)
}

// Options configures engine defaults applied when saving and importing songs.
type Options struct {
	DefaultDuration string  // Duration assigned when a draft omits one (default "4:00")
	ThumbnailBase   string  // Base URL for generated placeholder thumbnails
	WriteRateLimit  float64 // Fan-out writes per second (default 10)
	Workers         int     // Concurrent fan-out workers (default 5)
}

func (o Options) withDefaults() Options {
	if o.DefaultDuration == "" {
		o.DefaultDuration = "4:00"
	}
	if o.ThumbnailBase == "" {
		o.ThumbnailBase = "https://picsum.photos/400/400"
	}
	if o.WriteRateLimit <= 0 {
		o.WriteRateLimit = 10.0
	}
	if o.Workers <= 0 {
		o.Workers = 5
	}
	if o.Workers > 10 {
		o.Workers = 10
	}
	return o
}

// LibraryEngine owns the in-memory mirror of one user's library and applies
// every mutation against the backing stores.
//
// The mirror (songs, categories, selection, loading flag) is guarded by a
// single mutex; fan-out writes run concurrently outside the lock and the
// mirror is refreshed from the store once they settle.
type LibraryEngine struct {
	mu         sync.Mutex
	songs      []models.Song
	categories []models.Category
	selected   *models.Song
	loading    bool

	userID  string
	store   SongStore
	cats    CategoryStore
	dialog  Dialog
	logger  *log.Logger
	limiter *rate.Limiter
	opts    Options
	now     func() time.Time
}

// NewLibraryEngine creates an engine for the given user over the provided stores.
func NewLibraryEngine(userID string, store SongStore, cats CategoryStore, dialog Dialog, opts Options, logger *log.Logger) *LibraryEngine {
	opts = opts.withDefaults()
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &LibraryEngine{
		userID:  userID,
		store:   store,
		cats:    cats,
		dialog:  dialog,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(opts.WriteRateLimit), 1),
		opts:    opts,
		now:     time.Now,
	}
}

// Songs returns a copy of the current song mirror.
func (e *LibraryEngine) Songs() []models.Song {
	e.mu.Lock()
	defer e.mu.Unlock()

	songs := make([]models.Song, len(e.songs))
	copy(songs, e.songs)
	return songs
}

// Categories returns a copy of the current category mirror.
func (e *LibraryEngine) Categories() []models.Category {
	e.mu.Lock()
	defer e.mu.Unlock()

	cats := make([]models.Category, len(e.categories))
	copy(cats, e.categories)
	return cats
}

// Selected returns the currently viewed song, or nil.
func (e *LibraryEngine) Selected() *models.Song {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == nil {
		return nil
	}
	song := e.selected.Clone()
	return &song
}

// Select marks a song as the currently viewed one.
func (e *LibraryEngine) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, song := range e.songs {
		if song.ID == id {
			selected := song.Clone()
			e.selected = &selected
			return nil
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
}

// ClearSelection drops the currently viewed song.
func (e *LibraryEngine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = nil
}

// Loading reports whether a multi-step operation is in flight.
func (e *LibraryEngine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

func (e *LibraryEngine) setLoading(v bool) {
	e.mu.Lock()
	e.loading = v
	e.mu.Unlock()
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchAll loads the user's songs and categories concurrently and replaces
// the mirror. On any failure the prior mirror is left untouched; there is no
// retry.
func (e *LibraryEngine) FetchAll(ctx context.Context, progress chan<- ProgressUpdate) error {
	e.setLoading(true)
	defer e.setLoading(false)

	e.sendProgress(progress, fetchLibraryUpdate(1, 2))

	var (
		wg      sync.WaitGroup
		songs   []models.Song
		cats    []models.Category
		songErr error
		catErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		songs, songErr = e.store.ListByUser(ctx, e.userID)
	}()
	go func() {
		defer wg.Done()
		cats, catErr = e.cats.ListByUser(ctx, e.userID)
	}()
	wg.Wait()

	if err := errors.Join(songErr, catErr); err != nil {
		e.logger.Error("failed to fetch library", "error", err)
		return fmt.Errorf("failed to fetch library: %w", err)
	}

	e.mu.Lock()
	e.songs = songs
	e.categories = cats
	e.refreshSelectionLocked()
	e.mu.Unlock()

	e.sendProgress(progress, fetchDoneUpdate(len(songs), len(cats)))
	return nil
}

// refetchSongs reloads the song mirror after a write. Callers hold no lock.
func (e *LibraryEngine) refetchSongs(ctx context.Context) error {
	songs, err := e.store.ListByUser(ctx, e.userID)
	if err != nil {
		e.logger.Error("failed to refetch songs", "error", err)
		return fmt.Errorf("failed to refetch songs: %w", err)
	}

	e.mu.Lock()
	e.songs = songs
	e.refreshSelectionLocked()
	e.mu.Unlock()
	return nil
}

// refetchCategories reloads the category mirror after a write.
func (e *LibraryEngine) refetchCategories(ctx context.Context) error {
	cats, err := e.cats.ListByUser(ctx, e.userID)
	if err != nil {
		e.logger.Error("failed to refetch categories", "error", err)
		return fmt.Errorf("failed to refetch categories: %w", err)
	}

	e.mu.Lock()
	e.categories = cats
	e.mu.Unlock()
	return nil
}

// refreshSelectionLocked re-points the selection mirror at the refreshed
// song list. A selected song that no longer exists clears the selection.
func (e *LibraryEngine) refreshSelectionLocked() {
	if e.selected == nil {
		return
	}
	for _, song := range e.songs {
		if song.ID == e.selected.ID {
			selected := song.Clone()
			e.selected = &selected
			return
		}
	}
	e.selected = nil
}

// ToggleFavorite flips a song's favorite flag optimistically, mirrors the
// flip into the selection, and issues the single-field remote update. On
// store failure the exact prior state is restored and the user alerted.
func (e *LibraryEngine) ToggleFavorite(ctx context.Context, id string) error {
	e.mu.Lock()
	idx := -1
	for i := range e.songs {
		if e.songs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	snapshot := e.songs[idx].Clone()
	newVal := !snapshot.IsFavorite
	e.songs[idx].IsFavorite = newVal
	if e.selected != nil && e.selected.ID == id {
		e.selected.IsFavorite = newVal
	}
	e.mu.Unlock()

	if err := e.store.SetFavorite(ctx, id, newVal); err != nil {
		e.logger.Error("failed to toggle favorite", "song", id, "error", err)

		e.mu.Lock()
		for i := range e.songs {
			if e.songs[i].ID == id {
				e.songs[i] = snapshot
				break
			}
		}
		if e.selected != nil && e.selected.ID == id {
			restored := snapshot.Clone()
			e.selected = &restored
		}
		e.mu.Unlock()

		e.dialog.Alert("Erro ao atualizar favoritos.")
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return nil
}

// SaveSongDraft upserts a song. An empty editingID creates a new song with a
// generated id; otherwise the draft replaces the song with that id. Missing
// fields receive defaults before validation, and the song mirror is fully
// refetched after the write.
func (e *LibraryEngine) SaveSongDraft(ctx context.Context, draft models.Song, editingID string, progress chan<- ProgressUpdate) (models.Song, error) {
	e.setLoading(true)
	defer e.setLoading(false)

	song := draft.Clone()
	if editingID != "" {
		song.ID = editingID
	} else if song.ID == "" {
		song.ID = shared.GenerateID()
	}
	e.applyDefaults(&song)

	if err := song.Validate(); err != nil {
		return models.Song{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	e.sendProgress(progress, savingSongUpdate(song.Title))

	if err := e.store.Upsert(ctx, e.userID, song); err != nil {
		e.logger.Error("failed to save song", "song", song.ID, "error", err)
		e.dialog.Alert("Erro ao salvar música.")
		return models.Song{}, fmt.Errorf("failed to save song: %w", err)
	}

	if err := e.refetchSongs(ctx); err != nil {
		return models.Song{}, err
	}
	return song, nil
}

// applyDefaults fills the fields a draft may omit.
func (e *LibraryEngine) applyDefaults(song *models.Song) {
	if song.Duration == "" {
		song.Duration = e.opts.DefaultDuration
	}
	if song.Thumbnail == "" {
		song.Thumbnail = models.DefaultThumbnail(e.opts.ThumbnailBase, song.ID)
	}
	if song.AddedDate == "" {
		song.AddedDate = shared.FormatDate(e.now())
	}
	if song.Categories == nil {
		song.Categories = []string{}
	}
	if song.Styles == nil {
		song.Styles = []string{}
	}
}

// Delete removes a song after a dialog confirmation. On store failure the
// local mirror is left unchanged and the user alerted.
func (e *LibraryEngine) Delete(ctx context.Context, song models.Song) error {
	ok, err := e.dialog.Confirm(fmt.Sprintf("Tem certeza que deseja excluir %q?", song.Title))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return nil
	}

	e.setLoading(true)
	defer e.setLoading(false)

	if err := e.store.Delete(ctx, song.ID); err != nil {
		e.logger.Error("failed to delete song", "song", song.ID, "error", err)
		e.dialog.Alert("Erro ao excluir música.")
		return fmt.Errorf("failed to delete song: %w", err)
	}

	e.mu.Lock()
	for i := range e.songs {
		if e.songs[i].ID == song.ID {
			e.songs = append(e.songs[:i], e.songs[i+1:]...)
			break
		}
	}
	if e.selected != nil && e.selected.ID == song.ID {
		e.selected = nil
	}
	e.mu.Unlock()

	return nil
}

// Logout clears the in-memory mirror and selection. Remote records are
// untouched.
func (e *LibraryEngine) Logout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.songs = nil
	e.categories = nil
	e.selected = nil
}

// trimName normalizes a prompted category name.
func trimName(name string) string {
	return strings.TrimSpace(name)
}
