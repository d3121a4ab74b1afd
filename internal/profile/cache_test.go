package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mmynk/billtracker/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	users     map[string]*models.User
	gets      int
	failWrite error
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copy := *u
	return &copy, nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	copy := *user
	f.users[user.ID] = &copy
	return nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{
		"user-1": {
			ID:              "user-1",
			Email:           "alice@example.com",
			DisplayName:     "Alice",
			PasswordHash:    "secret-hash",
			DefaultCurrency: "USD",
		},
	}}
}

func TestCache_ReadThrough(t *testing.T) {
	store := newFakeStore()
	cache := New(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		user, err := cache.Get(ctx, "user-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if user.DisplayName != "Alice" {
			t.Errorf("DisplayName = %q", user.DisplayName)
		}
		if user.PasswordHash != "" {
			t.Error("password hash leaked into cached profile")
		}
	}
	if store.gets != 1 {
		t.Errorf("expected 1 store read, got %d", store.gets)
	}

	if _, err := cache.Get(ctx, "nobody"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestCache_UpdateWritesThrough(t *testing.T) {
	store := newFakeStore()
	cache := New(store)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "user-1"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	inr := "INR"
	done := true
	updated, err := cache.Update(ctx, "user-1", models.ProfileUpdate{
		DefaultCurrency: &inr,
		CurrencySet:     &done,
	}, 1700000000)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.DefaultCurrency != "INR" || !updated.Onboarding.CurrencySet {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if store.users["user-1"].DefaultCurrency != "INR" {
		t.Error("update not written to store")
	}
	if store.users["user-1"].PasswordHash != "secret-hash" {
		t.Error("write-through must keep the stored password hash")
	}

	reads := store.gets
	cached, _ := cache.Get(ctx, "user-1")
	if cached.DefaultCurrency != "INR" {
		t.Errorf("cache not refreshed: %q", cached.DefaultCurrency)
	}
	if store.gets != reads {
		t.Error("Get after Update should be served from cache")
	}
}

func TestCache_FailedUpdateEvicts(t *testing.T) {
	store := newFakeStore()
	cache := New(store)
	ctx := context.Background()

	cache.Get(ctx, "user-1")
	store.failWrite = errors.New("disk full")

	name := "Bob"
	if _, err := cache.Update(ctx, "user-1", models.ProfileUpdate{DisplayName: &name}, 1); err == nil {
		t.Fatal("expected update error")
	}

	reads := store.gets
	user, _ := cache.Get(ctx, "user-1")
	if user.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q, want unchanged Alice", user.DisplayName)
	}
	if store.gets != reads+1 {
		t.Error("expected a store read after eviction")
	}
}

func TestCache_Invalidate(t *testing.T) {
	store := newFakeStore()
	cache := New(store)
	ctx := context.Background()

	cache.Get(ctx, "user-1")
	store.users["user-1"].DisplayName = "Alicia"
	cache.Invalidate("user-1")

	user, _ := cache.Get(ctx, "user-1")
	if user.DisplayName != "Alicia" {
		t.Errorf("DisplayName = %q, want Alicia", user.DisplayName)
	}
}
