package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/budgetcsv-dev/budgetcsv/internal/id"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// defaultCategories is the category set seeded into a fresh store.
var defaultCategories = []string{
	"Groceries",
	"Transport",
	"Housing",
	"Health",
	"Education",
	"Leisure",
	"Shopping",
	"Services",
	"Other",
}

// Init seeds missing collections with defaults and migrates legacy records:
// categories stored as bare strings gain derived ids, and rules that carry
// only a legacy category name gain a categoryId.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.Get(ctx, KeyPayeeRules); err == ErrNotFound {
		if err := s.SetRules(ctx, nil); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := s.Get(ctx, KeyCategories); err == ErrNotFound {
		cats := make([]model.Category, 0, len(defaultCategories))
		for _, name := range defaultCategories {
			cats = append(cats, model.Category{ID: id.CategoryID(name), Name: name})
		}
		if err := s.SetCategories(ctx, cats); err != nil {
			return err
		}
	} else if err == nil {
		// Rewrite in normalized form in case legacy string entries remain.
		cats, err := s.Categories(ctx)
		if err != nil {
			return err
		}
		if err := s.SetCategories(ctx, cats); err != nil {
			return err
		}
	} else {
		return err
	}

	if _, err := s.Get(ctx, KeyAccounts); err == ErrNotFound {
		accounts := make([]model.Account, 0, len(model.SeedAccounts))
		for _, a := range model.SeedAccounts {
			accounts = append(accounts, model.Account{ID: a.ID, Name: a.Name})
		}
		if err := s.SetAccounts(ctx, accounts); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return s.migrateRuleCategoryIDs(ctx)
}

// migrateRuleCategoryIDs backfills categoryId on rules that predate id-based
// category references, creating the referenced category when it is unknown.
func (s *Store) migrateRuleCategoryIDs(ctx context.Context) error {
	rules, err := s.Rules(ctx)
	if err != nil {
		return err
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		return err
	}

	nameToID := make(map[string]string, len(cats))
	for _, c := range cats {
		nameToID[strings.ToLower(c.Name)] = c.ID
	}

	changed := false
	for i, r := range rules {
		name := strings.TrimSpace(r.Category)
		if r.CategoryID != "" || name == "" {
			continue
		}
		catID, ok := nameToID[strings.ToLower(name)]
		if !ok {
			catID = id.CategoryID(name)
			cats = append(cats, model.Category{ID: catID, Name: name})
			nameToID[strings.ToLower(name)] = catID
		}
		rules[i].CategoryID = catID
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.SetCategories(ctx, cats); err != nil {
		return err
	}
	return s.SetRules(ctx, rules)
}

// NormalizeCategory accepts a persisted category record in either its
// current object form or the legacy bare-string form.
func NormalizeCategory(raw json.RawMessage) (model.Category, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name = strings.TrimSpace(name); name == "" {
			return model.Category{}, false
		}
		return model.Category{ID: id.CategoryID(name), Name: name}, true
	}

	var c model.Category
	if err := json.Unmarshal(raw, &c); err != nil {
		return model.Category{}, false
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.Category{}, false
	}
	if c.ID == "" {
		c.ID = id.CategoryID(c.Name)
	}
	return c, true
}

// DedupeCategories derives missing ids and drops duplicates, keeping the
// first occurrence of each id.
func DedupeCategories(cats []model.Category) []model.Category {
	seen := make(map[string]bool, len(cats))
	unique := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		key := c.ID
		if key == "" {
			key = id.CategoryID(name)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, model.Category{ID: key, Name: name})
	}
	return unique
}
