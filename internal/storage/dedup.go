package storage

import (
	"context"

	"github.com/mmynk/billtracker/internal/dedup"
	"github.com/mmynk/billtracker/internal/models"
)

// Ensure Deduplicated implements Store
var _ Store = (*Deduplicated)(nil)

// Deduplicated decorates a Store so concurrent reads of a user's categories
// or profile share one backend round-trip. Results are shared between the
// callers of one call and must be treated as read-only.
type Deduplicated struct {
	Store

	categories *dedup.Loader[string, []*models.Category]
	users      *dedup.Loader[string, *models.User]
}

// NewDeduplicated wraps s.
func NewDeduplicated(s Store) *Deduplicated {
	return &Deduplicated{
		Store: s,
		categories: dedup.New(
			func(ownerID string) string { return "categories:" + ownerID },
			s.ListCategories,
		),
		users: dedup.New(
			func(id string) string { return "user:" + id },
			s.GetUserByID,
		),
	}
}

func (d *Deduplicated) ListCategories(ctx context.Context, ownerID string) ([]*models.Category, error) {
	return d.categories.Do(ctx, ownerID)
}

func (d *Deduplicated) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return d.users.Do(ctx, id)
}

func (d *Deduplicated) CreateCategory(ctx context.Context, category *models.Category) error {
	defer d.categories.Forget(category.OwnerID)
	return d.Store.CreateCategory(ctx, category)
}

func (d *Deduplicated) UpdateCategory(ctx context.Context, category *models.Category) error {
	defer d.categories.Forget(category.OwnerID)
	return d.Store.UpdateCategory(ctx, category)
}

func (d *Deduplicated) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	defer d.categories.Forget(ownerID)
	return d.Store.DeleteCategory(ctx, ownerID, categoryID)
}

func (d *Deduplicated) UpdateUser(ctx context.Context, user *models.User) error {
	defer d.users.Forget(user.ID)
	return d.Store.UpdateUser(ctx, user)
}
