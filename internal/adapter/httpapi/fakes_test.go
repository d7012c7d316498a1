package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nettrack/nettrack-backend/internal/domain"
)

// In-memory repository fakes backing the handler tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*domain.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.tokens, k)
		}
	}
	return nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{}}
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		copied := *a
		copied.Balances = append([]domain.Balance(nil), a.Balances...)
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAccountRepo) GetAllForUser(_ context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Account{}
	for _, a := range r.accounts {
		if a.UserID == userID {
			copied := *a
			copied.Balances = append([]domain.Balance(nil), a.Balances...)
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *account
	copied.Balances = append([]domain.Balance(nil), account.Balances...)
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.accounts[account.ID]
	if !ok {
		return domain.ErrNotFound
	}
	copied := *account
	copied.Balances = existing.Balances
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

// addBalance appends a balance to a stored account (used by the balance repo)
func (r *fakeAccountRepo) addBalance(b domain.Balance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[b.AccountID]; ok {
		a.Balances = append(a.Balances, b)
	}
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[uuid.UUID]*domain.Balance
	accounts *fakeAccountRepo
}

func newFakeBalanceRepo(accounts *fakeAccountRepo) *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: map[uuid.UUID]*domain.Balance{}, accounts: accounts}
}

func (r *fakeBalanceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.balances[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeBalanceRepo) GetAllForAccount(_ context.Context, accountID uuid.UUID) ([]domain.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Balance{}
	for _, b := range r.balances {
		if b.AccountID == accountID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) Create(_ context.Context, balance *domain.Balance) error {
	r.mu.Lock()
	copied := *balance
	copied.CreatedAt = time.Now().UTC()
	r.balances[balance.ID] = &copied
	r.mu.Unlock()
	r.accounts.addBalance(copied)
	return nil
}

func (r *fakeBalanceRepo) Update(_ context.Context, balance *domain.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[balance.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *balance
	r.balances[balance.ID] = &copied
	return nil
}

func (r *fakeBalanceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.balances, id)
	return nil
}

type fakeGroupRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]*domain.AccountGroup
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[uuid.UUID]*domain.AccountGroup{}}
}

func (r *fakeGroupRepo) GetByIDAndUser(_ context.Context, id, userID uuid.UUID) (*domain.AccountGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[id]; ok && g.UserID == userID {
		copied := *g
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeGroupRepo) GetAllForUser(_ context.Context, userID uuid.UUID) ([]*domain.AccountGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.AccountGroup{}
	for _, g := range r.groups {
		if g.UserID == userID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) Create(_ context.Context, group *domain.AccountGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) Update(_ context.Context, group *domain.AccountGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*domain.UserSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[uuid.UUID]*domain.UserSettings{}}
}

func (r *fakeSettingsRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.settings[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSettingsRepo) Create(_ context.Context, settings *domain.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *settings
	r.settings[settings.UserID] = &copied
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *domain.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *settings
	r.settings[settings.UserID] = &copied
	return nil
}
