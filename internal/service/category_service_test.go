package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/pkg/api"
)

func TestCategories(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	createResp, err := env.categories.CreateCategory(ctx, as(env.alice.ID, &api.CreateCategoryRequest{
		Name: "Insurance",
	}))
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	created := createResp.Msg.Category
	if created.ID == "" {
		t.Error("expected non-empty category ID")
	}
	if created.Icon == "" || created.Color == "" {
		t.Errorf("expected default icon and color, got %q %q", created.Icon, created.Color)
	}
	if created.IsDefault {
		t.Error("custom category must not be a default")
	}

	updateResp, err := env.categories.UpdateCategory(ctx, as(env.alice.ID, &api.UpdateCategoryRequest{
		ID:    created.ID,
		Name:  "Car Insurance",
		Icon:  "🚗",
		Color: "#000000",
	}))
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if updateResp.Msg.Category.Name != "Car Insurance" {
		t.Errorf("name: expected 'Car Insurance', got %q", updateResp.Msg.Category.Name)
	}

	listResp, err := env.categories.ListCategories(ctx, as(env.alice.ID, &api.ListCategoriesRequest{}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(listResp.Msg.Categories) != 1 || listResp.Msg.Categories[0].Icon != "🚗" {
		t.Errorf("expected the updated category, got %+v", listResp.Msg.Categories)
	}

	// Other users neither see nor modify it.
	bobList, err := env.categories.ListCategories(ctx, as(env.bob.ID, &api.ListCategoriesRequest{}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(bobList.Msg.Categories) != 0 {
		t.Errorf("expected no categories for bob, got %d", len(bobList.Msg.Categories))
	}
	_, err = env.categories.DeleteCategory(ctx, as(env.bob.ID, &api.DeleteCategoryRequest{ID: created.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := env.categories.DeleteCategory(ctx, as(env.alice.ID, &api.DeleteCategoryRequest{ID: created.ID})); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	_, err = env.categories.DeleteCategory(ctx, as(env.alice.ID, &api.DeleteCategoryRequest{ID: created.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateCategory_Invalid(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.categories.CreateCategory(context.Background(), as(env.alice.ID, &api.CreateCategoryRequest{Name: "  "}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
