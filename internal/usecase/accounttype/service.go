package accounttype

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// ErrDefaultImmutable is returned when a caller tries to change or delete a
// system default account type.
var ErrDefaultImmutable = errors.New("default account types cannot be modified")

// Input represents the input for creating or updating a custom account type
type Input struct {
	Name  string
	Label string
	Icon  string
}

// AccountTypeService handles the selectable account type catalogue:
// system defaults plus per-user custom types
type AccountTypeService struct {
	TypeRepo domain.AccountTypeRepository
}

// NewAccountTypeService creates a new AccountTypeService instance
func NewAccountTypeService(typeRepo domain.AccountTypeRepository) *AccountTypeService {
	return &AccountTypeService{TypeRepo: typeRepo}
}

// GetAll lists the system defaults and the user's own custom types
func (s *AccountTypeService) GetAll(ctx context.Context, user *domain.User) ([]*domain.AccountTypeDefinition, error) {
	defs, err := s.TypeRepo.GetAllForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	return defs, nil
}

// Create adds a custom account type scoped to the user
func (s *AccountTypeService) Create(ctx context.Context, user *domain.User, input Input) (*domain.AccountTypeDefinition, error) {
	userID := user.ID
	def := &domain.AccountTypeDefinition{
		ID:     uuid.New(),
		Name:   input.Name,
		Label:  input.Label,
		Icon:   input.Icon,
		UserID: &userID,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if err := s.TypeRepo.Create(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to create account type: %w", err)
	}
	return def, nil
}

// Update applies changes to one of the user's custom types. System defaults
// and other users' types cannot be touched.
func (s *AccountTypeService) Update(ctx context.Context, user *domain.User, typeID uuid.UUID, input Input) (*domain.AccountTypeDefinition, error) {
	def, err := s.ownedCustomType(ctx, user, typeID)
	if err != nil {
		return nil, err
	}

	def.Name = input.Name
	def.Label = input.Label
	def.Icon = input.Icon

	if err := def.Validate(); err != nil {
		return nil, err
	}
	if err := s.TypeRepo.Update(ctx, def); err != nil {
		return nil, fmt.Errorf("failed to update account type: %w", err)
	}
	return def, nil
}

// Delete removes one of the user's custom types
func (s *AccountTypeService) Delete(ctx context.Context, user *domain.User, typeID uuid.UUID) error {
	if _, err := s.ownedCustomType(ctx, user, typeID); err != nil {
		return err
	}
	if err := s.TypeRepo.Delete(ctx, typeID); err != nil {
		return fmt.Errorf("failed to delete account type: %w", err)
	}
	return nil
}

func (s *AccountTypeService) ownedCustomType(ctx context.Context, user *domain.User, typeID uuid.UUID) (*domain.AccountTypeDefinition, error) {
	def, err := s.TypeRepo.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if def.IsDefault || def.UserID == nil {
		return nil, ErrDefaultImmutable
	}
	if *def.UserID != user.ID {
		return nil, domain.ErrNotFound
	}
	return def, nil
}
