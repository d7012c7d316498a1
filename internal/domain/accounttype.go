package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccountTypeDefinition represents a selectable account type.
// System defaults have a nil UserID; user-defined types are scoped to a user.
type AccountTypeDefinition struct {
	ID        uuid.UUID
	Name      string // e.g. "savings"
	Label     string // e.g. "Savings"
	Icon      string
	IsDefault bool
	UserID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate ensures the type definition adheres to domain rules
func (d *AccountTypeDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("account type name cannot be empty")
	}
	if d.Label == "" {
		return errors.New("account type label cannot be empty")
	}
	return nil
}

// DefaultAccountTypes are the system-wide types seeded on startup
var DefaultAccountTypes = []AccountTypeDefinition{
	{Name: "savings", Label: "Savings", IsDefault: true},
	{Name: "current", Label: "Current", IsDefault: true},
	{Name: "loan", Label: "Loan", IsDefault: true},
	{Name: "credit", Label: "Credit", IsDefault: true},
	{Name: "investment", Label: "Investment", IsDefault: true},
}
