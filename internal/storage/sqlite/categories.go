package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// CreateCategory persists a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, owner_id, name, icon, color, is_default, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.OwnerID, category.Name, category.Icon, category.Color,
		category.IsDefault, time.Now().Unix(),
	)
	return storage.Wrap("create category", err)
}

// ListCategories returns the owner's categories, defaults first.
func (s *SQLiteStore) ListCategories(ctx context.Context, ownerID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, icon, color, is_default
		 FROM categories WHERE owner_id = ?
		 ORDER BY is_default DESC, created_at, name`,
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Icon, &c.Color, &c.IsDefault); err != nil {
			return nil, storage.Wrap("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate categories", err)
	}

	return categories, nil
}

// UpdateCategory saves name, icon and color.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ?, color = ? WHERE id = ? AND owner_id = ?`,
		category.Name, category.Icon, category.Color, category.ID, category.OwnerID,
	)
	if err != nil {
		return storage.Wrap("update category", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.Wrap("update category", s.missing(ctx, "categories", category.ID, category.OwnerID))
	}
	return nil
}

// DeleteCategory removes a category. The foreign key leaves bills in it
// uncategorized.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND owner_id = ?", categoryID, ownerID)
	if err != nil {
		return storage.Wrap("delete category", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.Wrap("delete category", s.missing(ctx, "categories", categoryID, ownerID))
	}
	return nil
}
