package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budgetcsv-dev/budgetcsv/internal/id"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/store"
)

// ErrCategoryNotFound is returned when a category id or name is unknown.
var ErrCategoryNotFound = errors.New("category not found")

// Service provides category lookup and CRUD over the key-value store.
type Service struct {
	store *store.Store
}

// NewService creates a category Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories(ctx)
}

// NamesByID builds the id->name lookup the matcher consumes. Built once per
// batch; a missing id resolves to "".
func (s *Service) NamesByID(ctx context.Context) (map[string]string, error) {
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Name
	}
	return byID, nil
}

// Add creates a category with a deterministically derived id. Adding a name
// whose id already exists is a no-op.
func (s *Service) Add(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("category name must not be empty")
	}

	cats, err := s.store.Categories(ctx)
	if err != nil {
		return model.Category{}, err
	}

	cat := model.Category{ID: id.CategoryID(name), Name: name}
	for _, c := range cats {
		if c.ID == cat.ID {
			return c, nil
		}
	}

	cats = append(cats, cat)
	if err := s.store.SetCategories(ctx, cats); err != nil {
		return model.Category{}, err
	}
	return cat, nil
}

// Remove deletes a category by name (case-insensitive).
func (s *Service) Remove(ctx context.Context, name string) error {
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return err
	}

	filtered := cats[:0]
	found := false
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			found = true
			continue
		}
		filtered = append(filtered, c)
	}
	if !found {
		return ErrCategoryNotFound
	}
	return s.store.SetCategories(ctx, filtered)
}

// FindByName returns the category with the given name, case-insensitive.
func (s *Service) FindByName(ctx context.Context, name string) (model.Category, error) {
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return model.Category{}, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return model.Category{}, ErrCategoryNotFound
}
