package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/karalib/internal/shared"
	testutils "github.com/desertthunder/karalib/internal/testing"
)

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	header := "id,title,artists,duration,styles,categories,thumbnail,isFavorite,addedDate,key,youtubeUrl\n"

	t.Run("ImportsWithDefaults", func(t *testing.T) {
		store := testutils.NewMemorySongStore()
		engine := newTestEngine(t, store, testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		csv := header + "n1,Garota de Ipanema,Tom Jobim,,,,,,,,\n"
		count, err := engine.ImportCSV(ctx, csv, nil)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 imported song, got %d", count)
		}

		song, ok := store.Get("n1")
		if !ok {
			t.Fatal("imported song missing from store")
		}
		if song.Duration != "4:00" {
			t.Errorf("expected default duration, got %q", song.Duration)
		}
		if !strings.Contains(song.Thumbnail, "?sig=n1") {
			t.Errorf("expected generated thumbnail, got %q", song.Thumbnail)
		}
		if got := engine.Songs(); len(got) != 1 {
			t.Errorf("mirror should refetch after import, got %d songs", len(got))
		}
	})

	t.Run("URLMatchesExistingSong", func(t *testing.T) {
		store := testutils.NewMemorySongStore(testSongs()...)
		engine := newTestEngine(t, store, testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		// Same URL as s1; the row's own id must be discarded.
		csv := header + "other,Evidências (2024),Chitãozinho & Xororó,,,,,,,,https://youtube.com/watch?v=ev1\n"
		count, err := engine.ImportCSV(ctx, csv, nil)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected 1 imported song, got %d", count)
		}

		if _, ok := store.Get("other"); ok {
			t.Error("row id should be replaced by the existing song id")
		}
		song, _ := store.Get("s1")
		if song.Title != "Evidências (2024)" {
			t.Errorf("existing song should be updated in place, got %q", song.Title)
		}
		if got := engine.Songs(); len(got) != 3 {
			t.Errorf("import should not duplicate songs, got %d", len(got))
		}
	})

	t.Run("URLDedupWithinBatch", func(t *testing.T) {
		store := testutils.NewMemorySongStore()
		engine := newTestEngine(t, store, testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		csv := header +
			"a1,Primeira Versão,Artista,,,,,,,,https://youtube.com/watch?v=dup\n" +
			"a2,Segunda Versão,Artista,,,,,,,,https://youtube.com/watch?v=dup\n"
		count, err := engine.ImportCSV(ctx, csv, nil)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if count != 1 {
			t.Fatalf("duplicate URLs should collapse to 1 song, got %d", count)
		}

		song, ok := store.Get("a1")
		if !ok {
			t.Fatal("expected the first row's id to win")
		}
		if song.Title != "Segunda Versão" {
			t.Errorf("last-seen values should win, got %q", song.Title)
		}
		if _, ok := store.Get("a2"); ok {
			t.Error("second row should not produce its own song")
		}
	})

	t.Run("RowsWithoutURLKeepOwnIds", func(t *testing.T) {
		store := testutils.NewMemorySongStore()
		engine := newTestEngine(t, store, testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		csv := header +
			"b1,Uma,Artista,,,,,,,,\n" +
			"b2,Outra,Artista,,,,,,,,\n"
		count, err := engine.ImportCSV(ctx, csv, nil)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 songs, got %d", count)
		}
	})

	t.Run("RejectsMissingIdOrTitle", func(t *testing.T) {
		engine := newTestEngine(t, testutils.NewMemorySongStore(), testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		csv := "artists,styles\nTom Jobim,Bossa Nova\n"
		if _, err := engine.ImportCSV(ctx, csv, nil); !errors.Is(err, shared.ErrInvalidCSV) {
			t.Errorf("expected ErrInvalidCSV, got %v", err)
		}
	})

	t.Run("RejectsEmptyInput", func(t *testing.T) {
		engine := newTestEngine(t, testutils.NewMemorySongStore(), testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		if _, err := engine.ImportCSV(ctx, header, nil); !errors.Is(err, shared.ErrInvalidCSV) {
			t.Errorf("expected ErrInvalidCSV for header-only input, got %v", err)
		}
	})

	t.Run("SnakeCaseColumns", func(t *testing.T) {
		store := testutils.NewMemorySongStore()
		engine := newTestEngine(t, store, testutils.NewMemoryCategoryStore(), &testutils.ScriptDialog{})

		csv := "id,title,artists,is_favorite,youtube_url\nc1,Música,Artista,true,https://youtube.com/watch?v=c1\n"
		if _, err := engine.ImportCSV(ctx, csv, nil); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		song, _ := store.Get("c1")
		if !song.IsFavorite {
			t.Error("is_favorite column should be honored")
		}
		if song.YouTubeURL != "https://youtube.com/watch?v=c1" {
			t.Errorf("youtube_url column should be honored, got %q", song.YouTubeURL)
		}
	})

	t.Run("StoreFailureAlerts", func(t *testing.T) {
		store := testutils.NewMemorySongStore()
		dialog := &testutils.ScriptDialog{}
		engine := newTestEngine(t, store, testutils.NewMemoryCategoryStore(), dialog)

		store.FailUpsert = errors.New("store offline")
		csv := header + "d1,Música,Artista,,,,,,,,\n"
		if _, err := engine.ImportCSV(ctx, csv, nil); err == nil {
			t.Fatal("expected import error")
		}
		if !strings.HasPrefix(dialog.LastAlert(), "Erro na importação:") {
			t.Errorf("unexpected alert %q", dialog.LastAlert())
		}
	})
}

func TestExportBackup(t *testing.T) {
	dialog := &testutils.ScriptDialog{}
	engine := newTestEngine(t, testutils.NewMemorySongStore(testSongs()...), testutils.NewMemoryCategoryStore(), dialog)

	path, err := engine.ExportBackup(t.TempDir()+"/backup.csv", nil)
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	testutils.AssertFileExists(t, path)
}
