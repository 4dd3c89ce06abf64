// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
)

// MemorySongStore is an in-memory test double for the engine's song store.
// Fail* fields inject errors into the corresponding operation.
type MemorySongStore struct {
	mu    sync.Mutex
	Songs map[string]models.Song

	FailList          error
	FailUpsert        error
	FailSetFavorite   error
	FailSetCategories error
	FailDelete        error

	SetCategoriesCalls int
	UpsertCalls        int
}

func NewMemorySongStore(songs ...models.Song) *MemorySongStore {
	store := &MemorySongStore{Songs: make(map[string]models.Song)}
	for _, song := range songs {
		store.Songs[song.ID] = song.Clone()
	}
	return store
}

func (m *MemorySongStore) ListByUser(ctx context.Context, userID string) ([]models.Song, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	songs := make([]models.Song, 0, len(m.Songs))
	for _, song := range m.Songs {
		songs = append(songs, song.Clone())
	}
	sort.Slice(songs, func(i, j int) bool {
		return strings.ToLower(songs[i].Title) < strings.ToLower(songs[j].Title)
	})
	return songs, nil
}

func (m *MemorySongStore) Upsert(ctx context.Context, userID string, song models.Song) error {
	if m.FailUpsert != nil {
		return m.FailUpsert
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	m.Songs[song.ID] = song.Clone()
	return nil
}

func (m *MemorySongStore) UpsertBatch(ctx context.Context, userID string, songs []models.Song) error {
	if m.FailUpsert != nil {
		return m.FailUpsert
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, song := range songs {
		m.UpsertCalls++
		m.Songs[song.ID] = song.Clone()
	}
	return nil
}

func (m *MemorySongStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	if m.FailSetFavorite != nil {
		return m.FailSetFavorite
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	song, ok := m.Songs[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	song.IsFavorite = favorite
	m.Songs[id] = song
	return nil
}

func (m *MemorySongStore) SetCategories(ctx context.Context, id string, categories []string) error {
	if m.FailSetCategories != nil {
		return m.FailSetCategories
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	song, ok := m.Songs[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	m.SetCategoriesCalls++
	song.Categories = append([]string(nil), categories...)
	m.Songs[id] = song
	return nil
}

func (m *MemorySongStore) Delete(ctx context.Context, id string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Songs[id]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}
	delete(m.Songs, id)
	return nil
}

// Get returns a song copy straight from the backing map.
func (m *MemorySongStore) Get(id string) (models.Song, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	song, ok := m.Songs[id]
	return song.Clone(), ok
}

// MemoryCategoryStore is an in-memory test double for the engine's category
// store with per-user unique names.
type MemoryCategoryStore struct {
	mu         sync.Mutex
	Categories map[string]models.Category

	FailList   error
	FailCreate error
	FailRename error
	FailDelete error
}

func NewMemoryCategoryStore(cats ...models.Category) *MemoryCategoryStore {
	store := &MemoryCategoryStore{Categories: make(map[string]models.Category)}
	for _, cat := range cats {
		store.Categories[cat.ID] = cat
	}
	return store
}

func (m *MemoryCategoryStore) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cats := make([]models.Category, 0, len(m.Categories))
	for _, cat := range m.Categories {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		return strings.ToLower(cats[i].Name) < strings.ToLower(cats[j].Name)
	})
	return cats, nil
}

func (m *MemoryCategoryStore) Create(ctx context.Context, userID, name string) (models.Category, error) {
	if m.FailCreate != nil {
		return models.Category{}, m.FailCreate
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cat := range m.Categories {
		if cat.Name == name {
			return models.Category{}, fmt.Errorf("%w: %s", shared.ErrCategoryExists, name)
		}
	}

	cat := models.Category{ID: shared.GenerateID(), Name: name}
	m.Categories[cat.ID] = cat
	return cat, nil
}

func (m *MemoryCategoryStore) Rename(ctx context.Context, id, name string) error {
	if m.FailRename != nil {
		return m.FailRename
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cat := range m.Categories {
		if cat.ID != id && cat.Name == name {
			return fmt.Errorf("%w: %s", shared.ErrCategoryExists, name)
		}
	}

	cat, ok := m.Categories[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrCategoryNotFound, id)
	}
	cat.Name = name
	m.Categories[id] = cat
	return nil
}

func (m *MemoryCategoryStore) Delete(ctx context.Context, id string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Categories[id]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrCategoryNotFound, id)
	}
	delete(m.Categories, id)
	return nil
}

// ScriptDialog is a scripted test double for the engine's dialog. Answers
// are consumed in order; running out of answers fails the call.
type ScriptDialog struct {
	mu       sync.Mutex
	Confirms []bool
	Prompts  []string
	Alerts   []string
}

func (d *ScriptDialog) Confirm(message string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Confirms) == 0 {
		return false, errors.New("no scripted confirm answer")
	}
	answer := d.Confirms[0]
	d.Confirms = d.Confirms[1:]
	return answer, nil
}

func (d *ScriptDialog) Prompt(message, defaultValue string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Prompts) == 0 {
		return "", errors.New("no scripted prompt answer")
	}
	answer := d.Prompts[0]
	d.Prompts = d.Prompts[1:]
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func (d *ScriptDialog) Alert(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Alerts = append(d.Alerts, message)
}

// LastAlert returns the most recent alert message, or "".
func (d *ScriptDialog) LastAlert() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Alerts) == 0 {
		return ""
	}
	return d.Alerts[len(d.Alerts)-1]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
