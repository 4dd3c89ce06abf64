package models

import (
	"fmt"
	"slices"
)

// Song represents a karaoke song in the user's library.
//
// Categories stores category names, not ids; see the package doc for the
// consequences of that denormalization.
type Song struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	Duration   string   `json:"duration"`
	Styles     []string `json:"styles"`
	Categories []string `json:"categories"`
	Thumbnail  string   `json:"thumbnail"`
	IsFavorite bool     `json:"isFavorite"`
	AddedDate  string   `json:"addedDate"`
	Key        string   `json:"key,omitempty"`
	YouTubeURL string   `json:"youtubeUrl,omitempty"`
}

// Validate checks the persistence invariant: a song must have a non-empty
// title and at least one artist.
func (s Song) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("song title is required")
	}
	if len(s.Artists) == 0 {
		return fmt.Errorf("song requires at least one artist")
	}
	return nil
}

// HasCategory reports whether the song references the named category.
func (s Song) HasCategory(name string) bool {
	return slices.Contains(s.Categories, name)
}

// HasStyle reports whether the song carries the named style.
func (s Song) HasStyle(name string) bool {
	return slices.Contains(s.Styles, name)
}

// HasArtist reports whether the song lists the named artist.
func (s Song) HasArtist(name string) bool {
	return slices.Contains(s.Artists, name)
}

// Clone returns a deep copy so callers can snapshot a song before an
// optimistic mutation.
func (s Song) Clone() Song {
	c := s
	c.Artists = slices.Clone(s.Artists)
	c.Styles = slices.Clone(s.Styles)
	c.Categories = slices.Clone(s.Categories)
	return c
}

// DefaultThumbnail returns the deterministic placeholder image URL for a song id.
func DefaultThumbnail(base, id string) string {
	return fmt.Sprintf("%s?sig=%s", base, id)
}
