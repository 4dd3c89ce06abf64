package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/karalib/internal/catalog"
	"github.com/desertthunder/karalib/internal/models"
)

const favoriteMark = "★"

// SongLine renders one library row: favorite mark, title, artists, duration.
func SongLine(song models.Song) string {
	mark := " "
	if song.IsFavorite {
		mark = styles.fav.Render(favoriteMark)
	}
	return fmt.Sprintf("%s %s %s %s",
		mark,
		song.Title,
		Help(strings.Join(song.Artists, ", ")),
		Help("("+song.Duration+")"),
	)
}

// SongList renders a heading and one line per song.
func SongList(heading string, songs []models.Song) string {
	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("%s (%d)", heading, len(songs))))
	b.WriteString("\n")
	for _, song := range songs {
		b.WriteString(SongLine(song))
		b.WriteString("\n")
	}
	return b.String()
}

// SongDetails renders the full record for one song plus its related list.
func SongDetails(song models.Song, related []models.Song) string {
	var b strings.Builder
	b.WriteString(Title(song.Title))
	b.WriteString("\n")

	fields := []struct {
		label string
		value string
	}{
		{"Artistas", strings.Join(song.Artists, ", ")},
		{"Duração", song.Duration},
		{"Estilos", strings.Join(song.Styles, ", ")},
		{"Categorias", strings.Join(song.Categories, ", ")},
		{"Adicionada em", song.AddedDate},
		{"Tom", song.Key},
		{"YouTube", song.YouTubeURL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", Help(f.label), f.value))
	}
	if song.IsFavorite {
		b.WriteString(styles.fav.Render(favoriteMark+" Favorita") + "\n")
	}

	if len(related) > 0 {
		b.WriteString("\n")
		b.WriteString(Title("Relacionadas"))
		b.WriteString("\n")
		for _, r := range related {
			b.WriteString(SongLine(r))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CategoryList renders categories with their song counts, with the virtual
// favorites category first.
func CategoryList(categories []models.Category, songs []models.Song) string {
	var b strings.Builder
	b.WriteString(Title("Categorias"))
	b.WriteString("\n")

	favorites := catalog.InCategory(songs, catalog.FavoritesCategory)
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		styles.fav.Render(favoriteMark),
		catalog.FavoritesCategory,
		Help(fmt.Sprintf("(%d)", len(favorites))),
	))

	for _, cat := range categories {
		members := catalog.InCategory(songs, cat.Name)
		b.WriteString(fmt.Sprintf("  %s %s\n", cat.Name, Help(fmt.Sprintf("(%d)", len(members)))))
	}
	return b.String()
}

// Grouped renders a grouped view (by artist or style) with counts per key.
func Grouped(heading string, group catalog.Group) string {
	var b strings.Builder
	b.WriteString(Title(heading))
	b.WriteString("\n")
	for _, key := range group.Keys {
		songs := group.Songs[key]
		b.WriteString(fmt.Sprintf("%s %s\n", Success(key), Help(fmt.Sprintf("(%d)", len(songs)))))
		for _, song := range songs {
			b.WriteString("  " + SongLine(song) + "\n")
		}
	}
	return b.String()
}
