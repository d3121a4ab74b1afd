package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, default_currency,
	currency_set, first_bill_added, calendar_tour_done, checklist_tour_done,
	bills_page_tour_done, onboarding_completed_at, created_at, updated_at`

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
		user.UpdatedAt = user.CreatedAt
	}
	if user.DefaultCurrency == "" {
		user.DefaultCurrency = models.DefaultCurrency
	}

	o := user.Onboarding
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.DefaultCurrency,
		o.CurrencySet, o.FirstBillAdded, o.CalendarTourDone, o.ChecklistTourDone,
		o.BillsPageTourDone, o.CompletedAt, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return storage.Wrap("create user", storage.ErrConflict)
	}
	return storage.Wrap("create user", err)
}

// GetUserByEmail retrieves a user by email address.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, storage.Wrap("get user by email", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, storage.Wrap("get user by ID", err)
	}
	return user, nil
}

// UpdateUser saves the profile fields of a user.
func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	o := user.Onboarding
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET display_name = $1, default_currency = $2,
			currency_set = $3, first_bill_added = $4, calendar_tour_done = $5,
			checklist_tour_done = $6, bills_page_tour_done = $7,
			onboarding_completed_at = $8, updated_at = $9
		 WHERE id = $10`,
		user.DisplayName, user.DefaultCurrency,
		o.CurrencySet, o.FirstBillAdded, o.CalendarTourDone,
		o.ChecklistTourDone, o.BillsPageTourDone,
		o.CompletedAt, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return storage.Wrap("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Wrap("update user", storage.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	o := &user.Onboarding
	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.DefaultCurrency,
		&o.CurrencySet, &o.FirstBillAdded, &o.CalendarTourDone, &o.ChecklistTourDone,
		&o.BillsPageTourDone, &o.CompletedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
