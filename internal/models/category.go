package models

// Category groups bills for display (e.g., "Rent", "Utilities").
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// OwnerID is the user who owns the category.
	OwnerID string

	// Name is the display name.
	Name string

	// Icon is a short glyph shown next to the name.
	Icon string

	// Color is a CSS hex color.
	Color string

	// IsDefault marks the categories created at registration.
	IsDefault bool
}

// DefaultCategories returns the categories every new user starts with.
func DefaultCategories(ownerID string) []*Category {
	defaults := []struct{ name, icon, color string }{
		{"Rent", "🏠", "#FF6B6B"},
		{"EMI", "💳", "#4ECDC4"},
		{"OTT", "📺", "#95E1D3"},
		{"Utilities", "⚡", "#F38181"},
		{"Credit Card", "💰", "#AA96DA"},
		{"Other", "📋", "#FCBAD3"},
	}
	categories := make([]*Category, len(defaults))
	for i, d := range defaults {
		categories[i] = &Category{
			OwnerID:   ownerID,
			Name:      d.name,
			Icon:      d.icon,
			Color:     d.color,
			IsDefault: true,
		}
	}
	return categories
}
