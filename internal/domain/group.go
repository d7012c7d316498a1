package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AccountGroup represents a named collection of a user's accounts,
// aggregated together on dashboards (e.g. "Pensions", "Joint savings")
type AccountGroup struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Accounts    []*Account
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate ensures the account group adheres to domain rules
func (g *AccountGroup) Validate() error {
	if g.Name == "" {
		return errors.New("group name cannot be empty")
	}
	return nil
}
