package models

import (
	"fmt"
	"strings"
)

// Category is a user-defined folder for songs. Name is unique per user,
// enforced by the store and surfaced as shared.ErrCategoryExists.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Validate checks that the category has a non-blank name.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	return nil
}
