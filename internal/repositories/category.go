package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/karalib/internal/models"
	"github.com/desertthunder/karalib/internal/shared"
)

// CategoryRepository persists [models.Category] rows scoped by user.
//
// Names are unique per user; violations surface as shared.ErrCategoryExists
// so the sync controller can distinguish them from generic store failures.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository with the given database connection
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser retrieves all categories for a user ordered by name ascending.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	query := `
		SELECT id, name
		FROM categories
		WHERE user_id = ?
		ORDER BY name COLLATE NOCASE ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

// Create inserts a new category with a generated id.
func (r *CategoryRepository) Create(ctx context.Context, userID, name string) (models.Category, error) {
	cat := models.Category{ID: shared.GenerateID(), Name: name}
	if err := cat.Validate(); err != nil {
		return models.Category{}, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		cat.ID, userID, cat.Name, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, fmt.Errorf("%w: %s", shared.ErrCategoryExists, name)
		}
		return models.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}

	return cat, nil
}

// Rename updates a category's name by id.
func (r *CategoryRepository) Rename(ctx context.Context, id, name string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, updated_at = ? WHERE id = ?",
		name, time.Now(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrCategoryExists, name)
		}
		return fmt.Errorf("failed to rename category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCategoryNotFound, id)
	}

	return nil
}

// Delete removes a category row by id. Songs referencing the category are
// left untouched; the fan-out cleanup belongs to the sync controller.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCategoryNotFound, id)
	}

	return nil
}
