package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/budgetcsv-dev/budgetcsv/internal/id"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/store"
)

// ErrRuleNotFound is returned when a rule id is not in the store.
var ErrRuleNotFound = errors.New("rule not found")

// Service provides rule CRUD over the key-value store.
type Service struct {
	store *store.Store
}

// NewService creates a rule Service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns all rules in insertion order.
func (s *Service) List(ctx context.Context) ([]model.PayeeRule, error) {
	return s.store.Rules(ctx)
}

// ForAccount returns the rules applicable to an account (account-specific
// plus wildcard), in stored order.
func (s *Service) ForAccount(ctx context.Context, accountID int) ([]model.PayeeRule, error) {
	all, err := s.store.Rules(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveScope(all, accountID), nil
}

// AddParams holds the fields for a new rule. CategoryID wins over
// CategoryName; a name that matches no existing category leaves the rule
// uncategorized.
type AddParams struct {
	AccountID    int
	Pattern      string
	IsRegex      bool
	Replacement  string
	CategoryID   string
	CategoryName string
	MemoTemplate string
}

// Add appends a new enabled rule with a creation-timestamp-derived id.
func (s *Service) Add(ctx context.Context, params AddParams) (model.PayeeRule, error) {
	if strings.TrimSpace(params.Pattern) == "" {
		return model.PayeeRule{}, fmt.Errorf("rule pattern must not be empty")
	}

	categoryID := params.CategoryID
	if categoryID == "" && params.CategoryName != "" {
		cats, err := s.store.Categories(ctx)
		if err != nil {
			return model.PayeeRule{}, err
		}
		for _, c := range cats {
			if strings.EqualFold(c.Name, params.CategoryName) {
				categoryID = c.ID
				break
			}
		}
	}

	rules, err := s.store.Rules(ctx)
	if err != nil {
		return model.PayeeRule{}, err
	}

	rule := model.PayeeRule{
		ID:           id.NewRuleID(),
		AccountID:    params.AccountID,
		Pattern:      params.Pattern,
		IsRegex:      params.IsRegex,
		Replacement:  params.Replacement,
		CategoryID:   categoryID,
		MemoTemplate: params.MemoTemplate,
		Enabled:      true,
	}
	rules = append(rules, rule)

	if err := s.store.SetRules(ctx, rules); err != nil {
		return model.PayeeRule{}, err
	}
	return rule, nil
}

// Get returns a rule by id.
func (s *Service) Get(ctx context.Context, ruleID int64) (model.PayeeRule, error) {
	rules, err := s.store.Rules(ctx)
	if err != nil {
		return model.PayeeRule{}, err
	}
	for _, r := range rules {
		if r.ID == ruleID {
			return r, nil
		}
	}
	return model.PayeeRule{}, ErrRuleNotFound
}

// Update applies a partial-field update to a rule, keeping its position in
// the evaluation order.
func (s *Service) Update(ctx context.Context, ruleID int64, upd model.RuleUpdate) error {
	rules, err := s.store.Rules(ctx)
	if err != nil {
		return err
	}

	for i, r := range rules {
		if r.ID != ruleID {
			continue
		}
		if upd.AccountID != nil {
			r.AccountID = *upd.AccountID
		}
		if upd.Pattern != nil {
			r.Pattern = *upd.Pattern
		}
		if upd.IsRegex != nil {
			r.IsRegex = *upd.IsRegex
		}
		if upd.Replacement != nil {
			r.Replacement = *upd.Replacement
		}
		if upd.CategoryID != nil {
			r.CategoryID = *upd.CategoryID
		}
		if upd.MemoTemplate != nil {
			r.MemoTemplate = *upd.MemoTemplate
		}
		if upd.Enabled != nil {
			r.Enabled = *upd.Enabled
		}
		rules[i] = r
		return s.store.SetRules(ctx, rules)
	}
	return ErrRuleNotFound
}

// SetEnabled toggles a rule without touching its other fields.
func (s *Service) SetEnabled(ctx context.Context, ruleID int64, enabled bool) error {
	return s.Update(ctx, ruleID, model.RuleUpdate{Enabled: &enabled})
}

// Remove deletes a rule by id.
func (s *Service) Remove(ctx context.Context, ruleID int64) error {
	rules, err := s.store.Rules(ctx)
	if err != nil {
		return err
	}

	filtered := rules[:0]
	found := false
	for _, r := range rules {
		if r.ID == ruleID {
			found = true
			continue
		}
		filtered = append(filtered, r)
	}
	if !found {
		return ErrRuleNotFound
	}
	return s.store.SetRules(ctx, filtered)
}
