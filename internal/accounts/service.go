package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/store"
)

// ErrAccountNotFound is returned when an account id or name is unknown.
var ErrAccountNotFound = errors.New("account not found")

// ErrProtected is returned when deleting a seed account.
var ErrProtected = errors.New("account is protected")

// Service provides account lookup and CRUD over the key-value store.
type Service struct {
	store *store.Store
}

// NewService creates an account Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]model.Account, error) {
	return s.store.Accounts(ctx)
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, accountID int) (model.Account, error) {
	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return model.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return a, nil
		}
	}
	return model.Account{}, ErrAccountNotFound
}

// GetByName returns an account by exact name.
func (s *Service) GetByName(ctx context.Context, name string) (model.Account, error) {
	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return model.Account{}, err
	}
	for _, a := range accounts {
		if a.Name == name {
			return a, nil
		}
	}
	return model.Account{}, ErrAccountNotFound
}

// Add creates an account named name with the next free id.
func (s *Service) Add(ctx context.Context, name string) (model.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Account{}, fmt.Errorf("account name must not be empty")
	}

	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return model.Account{}, err
	}

	maxID := 0
	for _, a := range accounts {
		if a.ID > maxID {
			maxID = a.ID
		}
	}

	acct := model.Account{ID: maxID + 1, Name: name}
	accounts = append(accounts, acct)
	if err := s.store.SetAccounts(ctx, accounts); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}

// Rename updates an account's name. Renames are the only mutation allowed
// on accounts referenced by rules.
func (s *Service) Rename(ctx context.Context, accountID int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("account name must not be empty")
	}

	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return err
	}
	for i, a := range accounts {
		if a.ID == accountID {
			accounts[i].Name = name
			return s.store.SetAccounts(ctx, accounts)
		}
	}
	return ErrAccountNotFound
}

// Remove deletes an account by id. Seed accounts are refused.
func (s *Service) Remove(ctx context.Context, accountID int) error {
	if model.IsSeedAccount(accountID) {
		return fmt.Errorf("%w: %d", ErrProtected, accountID)
	}

	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return err
	}

	filtered := accounts[:0]
	found := false
	for _, a := range accounts {
		if a.ID == accountID {
			found = true
			continue
		}
		filtered = append(filtered, a)
	}
	if !found {
		return ErrAccountNotFound
	}
	return s.store.SetAccounts(ctx, filtered)
}
