// Package catalog computes derived views over the in-memory song library.
//
// Every function is pure: results are recomputed from the current song and
// category lists plus the caller's selections, so no stale view survives a
// mutation. Titles sort with a pt-BR aware collator.
package catalog

import (
	"sort"
	"strings"

	"github.com/desertthunder/karalib/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FavoritesCategory is the virtual category computed from Song.IsFavorite.
// It is never persisted and cannot be renamed or deleted.
const FavoritesCategory = "Favoritas"

// RelatedLimit caps the related-songs view.
const RelatedLimit = 5

// newCollator returns a locale-aware collator for title comparison.
// Collators carry internal buffers, so each sort takes a fresh one.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese)
}

// SortByTitle sorts songs in place by title ascending, stable under the
// locale collation.
func SortByTitle(songs []models.Song) {
	c := newCollator()
	sort.SliceStable(songs, func(i, j int) bool {
		return c.CompareString(songs[i].Title, songs[j].Title) < 0
	})
}

// Filter returns the songs matching query, sorted by title.
//
// The match is a case-insensitive substring test against the title, any
// artist, any style, and any category name. An empty query matches all.
func Filter(songs []models.Song, query string) []models.Song {
	q := strings.ToLower(query)

	var filtered []models.Song
	for _, song := range songs {
		if matches(song, q) {
			filtered = append(filtered, song)
		}
	}

	SortByTitle(filtered)
	return filtered
}

func matches(song models.Song, q string) bool {
	if strings.Contains(strings.ToLower(song.Title), q) {
		return true
	}
	for _, artist := range song.Artists {
		if strings.Contains(strings.ToLower(artist), q) {
			return true
		}
	}
	for _, style := range song.Styles {
		if strings.Contains(strings.ToLower(style), q) {
			return true
		}
	}
	for _, cat := range song.Categories {
		if strings.Contains(strings.ToLower(cat), q) {
			return true
		}
	}
	return false
}

// Artists returns the distinct artists across all songs in first-seen order.
func Artists(songs []models.Song) []string {
	return distinct(songs, func(s models.Song) []string { return s.Artists })
}

// Styles returns the distinct styles across all songs in first-seen order.
func Styles(songs []models.Song) []string {
	return distinct(songs, func(s models.Song) []string { return s.Styles })
}

func distinct(songs []models.Song, field func(models.Song) []string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, song := range songs {
		for _, v := range field(song) {
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	return values
}

// InCategory returns the songs belonging to the named category.
//
// The virtual FavoritesCategory filters on IsFavorite and bypasses the
// categories list entirely. Callers pass an already filtered+sorted list so
// the search query composes with category browsing.
func InCategory(songs []models.Song, name string) []models.Song {
	var result []models.Song
	for _, song := range songs {
		if name == FavoritesCategory {
			if song.IsFavorite {
				result = append(result, song)
			}
		} else if song.HasCategory(name) {
			result = append(result, song)
		}
	}
	return result
}

// ByArtist returns the songs listing the named artist.
func ByArtist(songs []models.Song, artist string) []models.Song {
	var result []models.Song
	for _, song := range songs {
		if song.HasArtist(artist) {
			result = append(result, song)
		}
	}
	return result
}

// ByStyle returns the songs carrying the named style.
func ByStyle(songs []models.Song, style string) []models.Song {
	var result []models.Song
	for _, song := range songs {
		if song.HasStyle(style) {
			result = append(result, song)
		}
	}
	return result
}

// Group maps a value to its title-sorted songs, with Keys sorted for display.
type Group struct {
	Keys  []string
	Songs map[string][]models.Song
}

// GroupByArtist groups songs by each artist they list.
func GroupByArtist(songs []models.Song) Group {
	return groupBy(songs, func(s models.Song) []string { return s.Artists })
}

// GroupByStyle groups songs by each style they carry.
func GroupByStyle(songs []models.Song) Group {
	return groupBy(songs, func(s models.Song) []string { return s.Styles })
}

func groupBy(songs []models.Song, field func(models.Song) []string) Group {
	group := Group{Songs: make(map[string][]models.Song)}

	for _, song := range songs {
		for _, key := range field(song) {
			if _, ok := group.Songs[key]; !ok {
				group.Keys = append(group.Keys, key)
			}
			group.Songs[key] = append(group.Songs[key], song)
		}
	}

	c := newCollator()
	sort.SliceStable(group.Keys, func(i, j int) bool {
		return c.CompareString(group.Keys[i], group.Keys[j]) < 0
	})
	for _, key := range group.Keys {
		SortByTitle(group.Songs[key])
	}

	return group
}

// Related returns up to RelatedLimit songs sharing at least one style or
// category with the selected song, in list order, excluding the song itself.
func Related(songs []models.Song, selected models.Song) []models.Song {
	var related []models.Song
	for _, song := range songs {
		if song.ID == selected.ID {
			continue
		}
		if sharesAny(song.Styles, selected.Styles) || sharesAny(song.Categories, selected.Categories) {
			related = append(related, song)
			if len(related) == RelatedLimit {
				break
			}
		}
	}
	return related
}

func sharesAny(a, b []string) bool {
	for _, v := range a {
		for _, w := range b {
			if v == w {
				return true
			}
		}
	}
	return false
}
