package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

// CreateCategory persists a new category.
func (s *PostgresStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, owner_id, name, icon, color, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		category.ID, category.OwnerID, category.Name, category.Icon, category.Color,
		category.IsDefault, time.Now().Unix(),
	)
	return storage.Wrap("create category", err)
}

// ListCategories returns the owner's categories, defaults first.
func (s *PostgresStore) ListCategories(ctx context.Context, ownerID string) ([]*models.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, name, icon, color, is_default
		 FROM categories WHERE owner_id = $1
		 ORDER BY is_default DESC, created_at, name`,
		ownerID,
	)
	if err != nil {
		return nil, storage.Wrap("list categories", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Category, error) {
		c := &models.Category{}
		err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Icon, &c.Color, &c.IsDefault)
		return c, err
	})
	if err != nil {
		return nil, storage.Wrap("scan categories", err)
	}
	return categories, nil
}

// UpdateCategory saves name, icon and color.
func (s *PostgresStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET name = $1, icon = $2, color = $3 WHERE id = $4 AND owner_id = $5`,
		category.Name, category.Icon, category.Color, category.ID, category.OwnerID,
	)
	if err != nil {
		return storage.Wrap("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("update category", s.missing(ctx, "categories", category.ID, category.OwnerID))
	}
	return nil
}

// DeleteCategory removes a category; its bills become uncategorized.
func (s *PostgresStore) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM categories WHERE id = $1 AND owner_id = $2", categoryID, ownerID)
	if err != nil {
		return storage.Wrap("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("delete category", s.missing(ctx, "categories", categoryID, ownerID))
	}
	return nil
}
