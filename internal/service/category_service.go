package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
	"github.com/mmynk/billtracker/pkg/api"
	"github.com/mmynk/billtracker/pkg/api/apiconnect"
)

var _ apiconnect.CategoryServiceHandler = (*CategoryService)(nil)

const (
	defaultCategoryIcon  = "📋"
	defaultCategoryColor = "#FCBAD3"
)

// CategoryService implements the Connect CategoryService.
type CategoryService struct {
	store storage.CategoryStore
}

// NewCategoryService creates a new CategoryService with the given storage backend.
func NewCategoryService(store storage.CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// ListCategories returns the caller's categories, defaults first.
func (s *CategoryService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		slog.Error("ListCategories failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.Category, len(categories))
	for i, c := range categories {
		out[i] = toAPICategory(c)
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

// CreateCategory adds a custom category.
func (s *CategoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateCategory request received", "user_id", userID, "name", req.Msg.Name)

	category, err := categoryFromRequest(userID, "", req.Msg.Name, req.Msg.Icon, req.Msg.Color)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		slog.Error("CreateCategory failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Category created", "category_id", category.ID)
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

// UpdateCategory renames or restyles a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, req *connect.Request[api.UpdateCategoryRequest]) (*connect.Response[api.UpdateCategoryResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateCategory request received", "user_id", userID, "category_id", req.Msg.ID)

	if req.Msg.ID == "" {
		return nil, invalid("id", "category id is required")
	}
	category, err := categoryFromRequest(userID, req.Msg.ID, req.Msg.Name, req.Msg.Icon, req.Msg.Color)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		slog.Error("UpdateCategory failed", "category_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	// Re-read to report the stored default flag.
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		slog.Error("Failed to fetch updated category", "category_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}
	for _, c := range categories {
		if c.ID == category.ID {
			category = c
			break
		}
	}

	return connect.NewResponse(&api.UpdateCategoryResponse{Category: toAPICategory(category)}), nil
}

// DeleteCategory removes a category. Its bills become uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteCategory request received", "user_id", userID, "category_id", req.Msg.ID)

	if err := s.store.DeleteCategory(ctx, userID, req.Msg.ID); err != nil {
		slog.Error("DeleteCategory failed", "category_id", req.Msg.ID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeleteCategoryResponse{}), nil
}

func categoryFromRequest(userID, id, name, icon, color string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}
	if color == "" {
		color = defaultCategoryColor
	}
	return &models.Category{
		ID:      id,
		OwnerID: userID,
		Name:    name,
		Icon:    icon,
		Color:   color,
	}, nil
}
