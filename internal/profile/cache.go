// Package profile keeps a best-effort, read-through cache of user profiles.
//
// The cache is never authoritative: a miss or an undecodable entry falls
// back to the store, and updates are written to the store first.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/billtracker/internal/models"
)

// Store is the subset of storage the cache reads from and writes through to.
type Store interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// Cache holds serialized profiles keyed by user ID.
type Cache struct {
	store Store

	mu       sync.Mutex
	entries  map[string][]byte
	versions map[string]uint64
}

// New creates an empty cache in front of store.
func New(store Store) *Cache {
	return &Cache{
		store:    store,
		entries:  make(map[string][]byte),
		versions: make(map[string]uint64),
	}
}

// Get returns the profile of userID, loading it from the store on a miss.
// The returned user never carries the password hash.
func (c *Cache) Get(ctx context.Context, userID string) (*models.User, error) {
	c.mu.Lock()
	data, ok := c.entries[userID]
	version := c.versions[userID]
	c.mu.Unlock()

	if ok {
		user := &models.User{}
		if err := json.Unmarshal(data, user); err == nil {
			return user, nil
		}
		slog.Warn("Discarding undecodable cached profile", "user_id", userID)
	}

	user, err := c.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := withoutSecrets(user)

	c.mu.Lock()
	// An update that raced with this load wins.
	if c.versions[userID] == version {
		c.put(userID, profile)
	}
	c.mu.Unlock()

	return profile, nil
}

// Update applies p to the stored profile and refreshes the cached copy in
// the same critical section. On failure the cached copy is dropped.
func (c *Cache) Update(ctx context.Context, userID string, p models.ProfileUpdate, now int64) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.versions[userID]++

	user, err := c.store.GetUserByID(ctx, userID)
	if err != nil {
		delete(c.entries, userID)
		return nil, err
	}

	updated := *user
	updated.Apply(p, now)
	if err := c.store.UpdateUser(ctx, &updated); err != nil {
		delete(c.entries, userID)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	profile := withoutSecrets(&updated)
	c.put(userID, profile)
	return profile, nil
}

// Invalidate drops the cached profile of userID.
func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	delete(c.entries, userID)
}

// put stores the serialized profile. Callers hold c.mu.
func (c *Cache) put(userID string, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		slog.Warn("Failed to cache profile", "user_id", userID, "error", err)
		return
	}
	c.entries[userID] = data
}

func withoutSecrets(u *models.User) *models.User {
	profile := *u
	profile.PasswordHash = ""
	return &profile
}
