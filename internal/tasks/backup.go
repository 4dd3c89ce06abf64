package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/desertthunder/karalib/internal/formatter"
	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
)

// ImportCSV merges decoded CSV rows into the library with a single batch
// upsert and reports how many songs were written.
//
// Rows carrying a YouTube URL dedup against the library and against the
// batch itself: a URL seen on an existing song reuses that song's id, a URL
// seen earlier in the batch reuses the earlier row's id, and rows collapsing
// to the same final id keep the last-seen values. Rows without a URL stand
// on their own id.
func (e *LibraryEngine) ImportCSV(ctx context.Context, text string, progress chan<- ProgressUpdate) (int, error) {
	records, err := formatter.Decode(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidCSV, err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: nenhum dado encontrado no CSV", shared.ErrInvalidCSV)
	}
	if records[0].String("id") == "" || records[0].String("title") == "" {
		return 0, fmt.Errorf("%w: campos id e title são obrigatórios", shared.ErrInvalidCSV)
	}

	e.setLoading(true)
	defer e.setLoading(false)

	batch := make([]models.Song, 0, len(records))
	for _, rec := range records {
		song := models.Song{
			ID:         rec.String("id"),
			Title:      rec.String("title"),
			Artists:    rec.Strings("artists"),
			Duration:   rec.String("duration"),
			Styles:     rec.Strings("styles"),
			Categories: rec.Strings("categories"),
			Thumbnail:  rec.String("thumbnail"),
			IsFavorite: rec.Bool("isFavorite") || rec.Bool("is_favorite"),
			AddedDate:  rec.String("addedDate"),
			Key:        rec.String("key"),
			YouTubeURL: rec.String("youtubeUrl"),
		}
		if song.AddedDate == "" {
			song.AddedDate = rec.String("added_date")
		}
		if song.YouTubeURL == "" {
			song.YouTubeURL = rec.String("youtube_url")
		}
		if song.Artists == nil {
			song.Artists = []string{}
		}
		e.applyDefaults(&song)
		batch = append(batch, song)
	}

	e.mu.Lock()
	existingByURL := make(map[string]string, len(e.songs))
	for _, song := range e.songs {
		if song.YouTubeURL != "" {
			existingByURL[song.YouTubeURL] = song.ID
		}
	}
	e.mu.Unlock()

	batchByURL := make(map[string]string)
	for i := range batch {
		url := batch[i].YouTubeURL
		if url == "" {
			continue
		}
		if id, ok := existingByURL[url]; ok {
			batch[i].ID = id
		} else if id, ok := batchByURL[url]; ok {
			batch[i].ID = id
		} else {
			batchByURL[url] = batch[i].ID
		}
	}

	// One record per final id, keeping the last-seen row in first-seen order.
	indexByID := make(map[string]int)
	unique := make([]models.Song, 0, len(batch))
	for _, song := range batch {
		if idx, ok := indexByID[song.ID]; ok {
			unique[idx] = song
		} else {
			indexByID[song.ID] = len(unique)
			unique = append(unique, song)
		}
	}

	e.sendProgress(progress, importingUpdate(0, len(unique)))

	if err := e.store.UpsertBatch(ctx, e.userID, unique); err != nil {
		e.logger.Error("failed to import songs", "count", len(unique), "error", err)
		e.dialog.Alert(fmt.Sprintf("Erro na importação: %v", err))
		return 0, fmt.Errorf("failed to import songs: %w", err)
	}

	e.dialog.Alert(fmt.Sprintf("%d músicas processadas/importadas com sucesso!", len(unique)))

	if err := e.refetchSongs(ctx); err != nil {
		return len(unique), err
	}
	return len(unique), nil
}

// ExportCSV writes the current library as CSV to w. An empty library alerts
// and exports nothing.
func (e *LibraryEngine) ExportCSV(w io.Writer, progress chan<- ProgressUpdate) error {
	songs := e.Songs()
	if len(songs) == 0 {
		e.dialog.Alert("Não há músicas para exportar.")
		return shared.ErrEmptyLibrary
	}

	e.sendProgress(progress, exportingUpdate(len(songs)))

	data, err := formatter.Encode(songs)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportBackup writes the current library to a backup file and returns the
// path. An empty path defaults to the dated backup filename.
func (e *LibraryEngine) ExportBackup(path string, progress chan<- ProgressUpdate) (string, error) {
	songs := e.Songs()
	if len(songs) == 0 {
		e.dialog.Alert("Não há músicas para exportar.")
		return "", shared.ErrEmptyLibrary
	}

	e.sendProgress(progress, exportingUpdate(len(songs)))
	return formatter.WriteBackup(songs, path)
}
