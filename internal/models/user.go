package models

import "time"

// DefaultCurrency is the currency assigned to new users.
const DefaultCurrency = "USD"

// User represents a registered user account and its profile settings.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown in the clients.
	DisplayName string

	// PasswordHash is the bcrypt hash of the password. Never sent to clients.
	PasswordHash string

	// DefaultCurrency is the ISO 4217 code new bills default to.
	DefaultCurrency string

	// Onboarding tracks which first-run steps the user has completed.
	Onboarding Onboarding

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// Onboarding holds the first-run progress flags.
type Onboarding struct {
	CurrencySet       bool
	FirstBillAdded    bool
	CalendarTourDone  bool
	ChecklistTourDone bool
	BillsPageTourDone bool

	// CompletedAt is the Unix timestamp when every step was done, 0 until then.
	CompletedAt int64
}

// Done reports whether every onboarding step is complete.
func (o Onboarding) Done() bool {
	return o.CurrencySet && o.FirstBillAdded && o.CalendarTourDone &&
		o.ChecklistTourDone && o.BillsPageTourDone
}

// NewUser creates a user with a fresh profile.
// The store assigns the ID when it is empty.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:           email,
		DisplayName:     displayName,
		PasswordHash:    passwordHash,
		DefaultCurrency: DefaultCurrency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName       *string
	DefaultCurrency   *string
	CurrencySet       *bool
	FirstBillAdded    *bool
	CalendarTourDone  *bool
	ChecklistTourDone *bool
	BillsPageTourDone *bool
}

// Apply merges the update into u and stamps UpdatedAt with now.
// Onboarding.CompletedAt is set the first time every step is done.
func (u *User) Apply(p ProfileUpdate, now int64) {
	setString(&u.DisplayName, p.DisplayName)
	setString(&u.DefaultCurrency, p.DefaultCurrency)
	setBool(&u.Onboarding.CurrencySet, p.CurrencySet)
	setBool(&u.Onboarding.FirstBillAdded, p.FirstBillAdded)
	setBool(&u.Onboarding.CalendarTourDone, p.CalendarTourDone)
	setBool(&u.Onboarding.ChecklistTourDone, p.ChecklistTourDone)
	setBool(&u.Onboarding.BillsPageTourDone, p.BillsPageTourDone)

	if u.Onboarding.Done() && u.Onboarding.CompletedAt == 0 {
		u.Onboarding.CompletedAt = now
	}
	u.UpdatedAt = now
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
