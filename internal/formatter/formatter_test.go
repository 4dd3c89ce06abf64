package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/karalib/internal/models"
)

func sampleSongs() []models.Song {
	return []models.Song{
		{
			ID:         "s1",
			Title:      "Evidências",
			Artists:    []string{"Chitãozinho & Xororó"},
			Duration:   "4:38",
			Styles:     []string{"Sertanejo"},
			Categories: []string{"Duetos", "Clássicos"},
			Thumbnail:  "https://picsum.photos/400/400?sig=s1",
			IsFavorite: true,
			AddedDate:  "01/03/2024",
			Key:        "C",
			YouTubeURL: "https://youtube.com/watch?v=ev1",
		},
		{
			ID:       "s2",
			Title:    "Canção, com vírgula",
			Artists:  []string{"Artista \"Citado\"", "Convidada"},
			Duration: "4:00",
		},
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(sampleSongs())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}

	if lines[0] != "id,title,artists,duration,styles,categories,thumbnail,isFavorite,addedDate,key,youtubeUrl" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Duetos|Clássicos") {
		t.Errorf("categories should be pipe-joined: %q", lines[1])
	}
	if !strings.Contains(lines[2], `"Canção, com vírgula"`) {
		t.Errorf("fields with commas should be quoted: %q", lines[2])
	}
	if !strings.Contains(lines[2], `""Citado""`) {
		t.Errorf("quotes should be doubled: %q", lines[2])
	}
}

func TestDecode(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		songs := sampleSongs()
		data, err := Encode(songs)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}

		records, err := Decode(string(data))
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(records) != len(songs) {
			t.Fatalf("expected %d records, got %d", len(songs), len(records))
		}

		first := records[0]
		if first.String("title") != "Evidências" {
			t.Errorf("title = %q", first.String("title"))
		}
		if got := first.Strings("categories"); len(got) != 2 || got[0] != "Duetos" || got[1] != "Clássicos" {
			t.Errorf("categories = %v", got)
		}
		if !first.Bool("isFavorite") {
			t.Error("expected favorite flag to survive the round trip")
		}

		second := records[1]
		if second.String("title") != "Canção, com vírgula" {
			t.Errorf("quoted title = %q", second.String("title"))
		}
		if got := second.Strings("artists"); len(got) != 2 || got[0] != `Artista "Citado"` {
			t.Errorf("artists = %v", got)
		}
		if second.Bool("isFavorite") {
			t.Error("expected favorite flag false")
		}
	})

	t.Run("EmptyListField", func(t *testing.T) {
		records, err := Decode("id,title,artists\ns1,Música,\n")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if got := records[0].Strings("artists"); got == nil || len(got) != 0 {
			t.Errorf("empty list field should decode to empty list, got %v", got)
		}
	})

	t.Run("SnakeCaseFavoriteColumn", func(t *testing.T) {
		records, err := Decode("id,title,is_favorite\ns1,Música,true\ns2,Outra,TRUE\n")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if !records[0].Bool("is_favorite") {
			t.Error("expected is_favorite true")
		}
		if records[1].Bool("is_favorite") {
			t.Error("favorite parsing is exact, TRUE should not match")
		}
	})

	t.Run("BlankLinesDropped", func(t *testing.T) {
		records, err := Decode("id,title\n\ns1,Música\n\n")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		records, err := Decode("id,title,artists\n")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}

func TestBackupFilename(t *testing.T) {
	day := time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC)
	if got := BackupFilename(day); got != "karaoke-backup-2024-03-09.csv" {
		t.Errorf("BackupFilename() = %q", got)
	}
}

func TestWriteBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.csv")

	written, err := WriteBackup(sampleSongs(), path)
	if err != nil {
		t.Fatalf("write backup failed: %v", err)
	}
	if written != path {
		t.Errorf("expected path %q, got %q", path, written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !strings.HasPrefix(string(data), "id,title,") {
		t.Errorf("backup should start with the header row, got %q", string(data[:20]))
	}
}
