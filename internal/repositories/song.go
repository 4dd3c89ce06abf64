package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
)

// SongRepository persists [models.Song] rows scoped by user.
//
// Upsert uses insert-or-replace semantics keyed on the song id, matching the
// save path of the sync controller: the caller supplies ids (client
// generated) and a full refetch follows every save.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// ListByUser retrieves all songs for a user ordered by title ascending.
func (r *SongRepository) ListByUser(ctx context.Context, userID string) ([]models.Song, error) {
	query := `
		SELECT id, title, artists, duration, styles, categories, thumbnail, is_favorite, added_date, key, youtube_url
		FROM songs
		WHERE user_id = ?
		ORDER BY title COLLATE NOCASE ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Upsert inserts or replaces a song by id.
func (r *SongRepository) Upsert(ctx context.Context, userID string, song models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return r.upsertTx(ctx, r.db, userID, song)
}

// UpsertBatch inserts or replaces a set of songs in a single transaction.
func (r *SongRepository) UpsertBatch(ctx context.Context, userID string, songs []models.Song) error {
	for _, song := range songs {
		if err := song.Validate(); err != nil {
			return fmt.Errorf("validation failed for %q: %w", song.ID, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, song := range songs {
		if err := r.upsertTx(ctx, tx, userID, song); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch upsert: %w", err)
	}

	return nil
}

// execer abstracts *sql.DB and *sql.Tx for the upsert statement.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SongRepository) upsertTx(ctx context.Context, ex execer, userID string, song models.Song) error {
	artists, err := marshalList(song.Artists)
	if err != nil {
		return err
	}
	styles, err := marshalList(song.Styles)
	if err != nil {
		return err
	}
	categories, err := marshalList(song.Categories)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `
		INSERT INTO songs (id, user_id, title, artists, duration, styles, categories, thumbnail, is_favorite, added_date, key, youtube_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artists = excluded.artists,
			duration = excluded.duration,
			styles = excluded.styles,
			categories = excluded.categories,
			thumbnail = excluded.thumbnail,
			is_favorite = excluded.is_favorite,
			added_date = excluded.added_date,
			key = excluded.key,
			youtube_url = excluded.youtube_url,
			updated_at = excluded.updated_at
	`

	_, err = ex.ExecContext(ctx, query,
		song.ID,
		userID,
		song.Title,
		artists,
		song.Duration,
		styles,
		categories,
		song.Thumbnail,
		song.IsFavorite,
		song.AddedDate,
		song.Key,
		song.YouTubeURL,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert song: %w", err)
	}

	return nil
}

// SetFavorite updates the single is_favorite column for a song.
func (r *SongRepository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE songs SET is_favorite = ?, updated_at = ? WHERE id = ?",
		favorite, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	return requireRow(result, id)
}

// SetCategories replaces a song's categories list.
func (r *SongRepository) SetCategories(ctx context.Context, id string, categories []string) error {
	encoded, err := marshalList(categories)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE songs SET categories = ?, updated_at = ? WHERE id = ?",
		encoded, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update categories: %w", err)
	}

	return requireRow(result, id)
}

// Delete removes a song row by id.
func (r *SongRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	return requireRow(result, id)
}

// requireRow converts a zero-row result into shared.ErrSongNotFound.
func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	return nil
}

// scanSong scans a row from [sql.Rows] into a [models.Song]
func scanSong(rows *sql.Rows) (models.Song, error) {
	var (
		song       models.Song
		artists    string
		styles     string
		categories string
	)

	err := rows.Scan(
		&song.ID,
		&song.Title,
		&artists,
		&song.Duration,
		&styles,
		&categories,
		&song.Thumbnail,
		&song.IsFavorite,
		&song.AddedDate,
		&song.Key,
		&song.YouTubeURL,
	)
	if err != nil {
		return models.Song{}, fmt.Errorf("failed to scan song: %w", err)
	}

	if song.Artists, err = unmarshalList(artists); err != nil {
		return models.Song{}, err
	}
	if song.Styles, err = unmarshalList(styles); err != nil {
		return models.Song{}, err
	}
	if song.Categories, err = unmarshalList(categories); err != nil {
		return models.Song{}, err
	}

	return song, nil
}
