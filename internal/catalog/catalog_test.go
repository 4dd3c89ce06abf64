package catalog

import (
	"strings"
	"testing"

	"github.com/desertthunder/karalib/internal/models"
)

func library() []models.Song {
	return []models.Song{
		{ID: "s1", Title: "Evidências", Artists: []string{"Chitãozinho & Xororó"}, Styles: []string{"Sertanejo"}, Categories: []string{"Duetos"}},
		{ID: "s2", Title: "Anunciação", Artists: []string{"Alceu Valença"}, Styles: []string{"MPB"}, Categories: []string{"Clássicos"}, IsFavorite: true},
		{ID: "s3", Title: "Faroeste Caboclo", Artists: []string{"Legião Urbana"}, Styles: []string{"Rock"}, Categories: []string{"Clássicos"}},
		{ID: "s4", Title: "Que País É Este", Artists: []string{"Legião Urbana"}, Styles: []string{"Rock"}, Categories: []string{}},
		{ID: "s5", Title: "Ainda Bem", Artists: []string{"Marisa Monte"}, Styles: []string{"MPB"}, Categories: []string{"Romântica"}, IsFavorite: true},
	}
}

func TestFilter(t *testing.T) {
	t.Run("MatchesLowercasedTitle", func(t *testing.T) {
		songs := library()
		for _, song := range songs {
			got := Filter(songs, strings.ToLower(song.Title))
			found := false
			for _, s := range got {
				if s.ID == song.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("filtering by %q should include the song itself", song.Title)
			}
		}
	})

	t.Run("MatchesArtistStyleCategory", func(t *testing.T) {
		songs := library()

		tests := []struct {
			query string
			want  int
		}{
			{"legião", 2},
			{"mpb", 2},
			{"clássicos", 2},
			{"sem resultado", 0},
			{"", 5},
		}

		for _, tt := range tests {
			if got := Filter(songs, tt.query); len(got) != tt.want {
				t.Errorf("Filter(%q) returned %d songs, want %d", tt.query, len(got), tt.want)
			}
		}
	})

	t.Run("SortedByTitleAscending", func(t *testing.T) {
		got := Filter(library(), "")
		for i := 1; i < len(got); i++ {
			if strings.ToLower(got[i-1].Title) > strings.ToLower(got[i].Title) {
				t.Errorf("titles out of order: %q before %q", got[i-1].Title, got[i].Title)
			}
		}
		if got[0].Title != "Ainda Bem" {
			t.Errorf("expected first title Ainda Bem, got %q", got[0].Title)
		}
	})
}

func TestUniverses(t *testing.T) {
	songs := library()

	artists := Artists(songs)
	if len(artists) != 4 {
		t.Errorf("expected 4 distinct artists, got %v", artists)
	}

	styles := Styles(songs)
	if len(styles) != 3 {
		t.Errorf("expected 3 distinct styles, got %v", styles)
	}
}

func TestInCategory(t *testing.T) {
	songs := Filter(library(), "")

	t.Run("ByName", func(t *testing.T) {
		got := InCategory(songs, "Clássicos")
		if len(got) != 2 {
			t.Fatalf("expected 2 songs in Clássicos, got %d", len(got))
		}
	})

	t.Run("VirtualFavorites", func(t *testing.T) {
		got := InCategory(songs, FavoritesCategory)
		if len(got) != 2 {
			t.Fatalf("expected 2 favorites, got %d", len(got))
		}
		for _, song := range got {
			if !song.IsFavorite {
				t.Errorf("%q is not a favorite", song.Title)
			}
		}
	})
}

func TestGrouping(t *testing.T) {
	group := GroupByArtist(Filter(library(), ""))

	if len(group.Keys) != 4 {
		t.Fatalf("expected 4 artist groups, got %v", group.Keys)
	}
	if group.Keys[0] != "Alceu Valença" {
		t.Errorf("expected sorted group keys, got first %q", group.Keys[0])
	}

	urbana := group.Songs["Legião Urbana"]
	if len(urbana) != 2 {
		t.Fatalf("expected 2 songs for Legião Urbana, got %d", len(urbana))
	}
	if urbana[0].Title != "Faroeste Caboclo" {
		t.Errorf("group songs should be title-sorted, got first %q", urbana[0].Title)
	}
}

func TestRelated(t *testing.T) {
	t.Run("SharesStyleOrCategory", func(t *testing.T) {
		songs := library()
		selected := songs[2] // Faroeste Caboclo: Rock, Clássicos

		got := Related(songs, selected)
		if len(got) != 2 {
			t.Fatalf("expected 2 related songs, got %d", len(got))
		}
		for _, song := range got {
			if song.ID == selected.ID {
				t.Error("related songs must exclude the selected song")
			}
			if !sharesAny(song.Styles, selected.Styles) && !sharesAny(song.Categories, selected.Categories) {
				t.Errorf("%q shares nothing with the selection", song.Title)
			}
		}
	})

	t.Run("CappedAtLimit", func(t *testing.T) {
		var songs []models.Song
		for i := 0; i < 10; i++ {
			songs = append(songs, models.Song{
				ID:      string(rune('a' + i)),
				Title:   "Música",
				Artists: []string{"Artista"},
				Styles:  []string{"Rock"},
			})
		}

		got := Related(songs, songs[0])
		if len(got) != RelatedLimit {
			t.Errorf("expected %d related songs, got %d", RelatedLimit, len(got))
		}
	})
}
