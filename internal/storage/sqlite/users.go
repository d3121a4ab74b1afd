package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, default_currency,
	currency_set, first_bill_added, calendar_tour_done, checklist_tour_done,
	bills_page_tour_done, onboarding_completed_at, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
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

	query := `INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	o := user.Onboarding
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.DefaultCurrency,
		o.CurrencySet,
		o.FirstBillAdded,
		o.CalendarTourDone,
		o.ChecklistTourDone,
		o.BillsPageTourDone,
		o.CompletedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return storage.Wrap("create user", storage.ErrConflict)
	}
	return storage.Wrap("create user", err)
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, storage.Wrap("get user by email", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, storage.Wrap("get user by ID", err)
	}
	return user, nil
}

// UpdateUser saves the profile fields of a user.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	o := user.Onboarding
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, default_currency = ?,
			currency_set = ?, first_bill_added = ?, calendar_tour_done = ?,
			checklist_tour_done = ?, bills_page_tour_done = ?,
			onboarding_completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		user.DisplayName, user.DefaultCurrency,
		o.CurrencySet, o.FirstBillAdded, o.CalendarTourDone,
		o.ChecklistTourDone, o.BillsPageTourDone,
		o.CompletedAt, user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return storage.Wrap("update user", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return storage.Wrap("update user", storage.ErrNotFound)
	}
	return nil
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	o := &user.Onboarding
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.DefaultCurrency,
		&o.CurrencySet,
		&o.FirstBillAdded,
		&o.CalendarTourDone,
		&o.ChecklistTourDone,
		&o.BillsPageTourDone,
		&o.CompletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
