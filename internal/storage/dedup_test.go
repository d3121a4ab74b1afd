package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmynk/billtracker/internal/models"
)

// countingStore counts backend reads. Methods it does not override panic
// through the nil embedded Store.
type countingStore struct {
	Store

	categoryCalls atomic.Int32
	userCalls     atomic.Int32
	delay         time.Duration
}

func (c *countingStore) ListCategories(ctx context.Context, ownerID string) ([]*models.Category, error) {
	c.categoryCalls.Add(1)
	time.Sleep(c.delay)
	return models.DefaultCategories(ownerID), nil
}

func (c *countingStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	c.userCalls.Add(1)
	time.Sleep(c.delay)
	if id == "missing" {
		return nil, Wrap("get user by ID", ErrNotFound)
	}
	return &models.User{ID: id}, nil
}

func (c *countingStore) CreateCategory(ctx context.Context, category *models.Category) error {
	return nil
}

func TestDeduplicated_CollapsesConcurrentReads(t *testing.T) {
	backend := &countingStore{delay: 100 * time.Millisecond}
	store := NewDeduplicated(backend)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if cats, err := store.ListCategories(context.Background(), "user-1"); err != nil || len(cats) != 6 {
				t.Errorf("ListCategories = %d, %v", len(cats), err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := store.GetUserByID(context.Background(), "user-1"); err != nil {
				t.Errorf("GetUserByID error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := backend.categoryCalls.Load(); got != 1 {
		t.Errorf("expected 1 category load, got %d", got)
	}
	if got := backend.userCalls.Load(); got != 1 {
		t.Errorf("expected 1 user load, got %d", got)
	}

	// Settled calls are not cached.
	if _, err := store.ListCategories(context.Background(), "user-1"); err != nil {
		t.Fatalf("ListCategories error = %v", err)
	}
	if got := backend.categoryCalls.Load(); got != 2 {
		t.Errorf("expected a fresh load after settle, got %d loads", got)
	}
}

func TestDeduplicated_KeysByOwner(t *testing.T) {
	backend := &countingStore{}
	store := NewDeduplicated(backend)

	store.ListCategories(context.Background(), "user-1")
	store.ListCategories(context.Background(), "user-2")
	if got := backend.categoryCalls.Load(); got != 2 {
		t.Errorf("expected 2 loads for distinct owners, got %d", got)
	}
}

func TestDeduplicated_PropagatesErrors(t *testing.T) {
	store := NewDeduplicated(&countingStore{})

	_, err := store.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "get user by ID" {
		t.Errorf("expected StoreError for get user by ID, got %v", err)
	}
}

func TestDeduplicated_WritesPassThrough(t *testing.T) {
	store := NewDeduplicated(&countingStore{})
	if err := store.CreateCategory(context.Background(), &models.Category{OwnerID: "user-1", Name: "Gym"}); err != nil {
		t.Errorf("CreateCategory error = %v", err)
	}
}

func TestWrap(t *testing.T) {
	if Wrap("noop", nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}

	inner := Wrap("get bill", ErrNotPermitted)
	outer := Wrap("update bill", inner)
	var se *StoreError
	if !errors.As(outer, &se) || se.Op != "get bill" {
		t.Errorf("Wrap should not double wrap, got %v", outer)
	}
	if outer.Error() != "failed to get bill: not permitted" {
		t.Errorf("Error() = %q", outer.Error())
	}
}
