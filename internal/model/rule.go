package model

import "encoding/json"

// PayeeRule rewrites a transaction's payee, category and memo when its
// pattern matches. Rules are evaluated in stored order; the first enabled
// match wins. Matching is always case-insensitive.
type PayeeRule struct {
	ID          int64  `json:"id"`
	AccountID   int    `json:"accountId"` // 0 = applies to every account
	Pattern     string `json:"pattern"`   // literal substring or regex source
	IsRegex     bool   `json:"isRegex"`
	Replacement string `json:"replacement"` // empty = keep original payee
	CategoryID  string `json:"categoryId"`
	Category    string `json:"category,omitempty"` // legacy by-name reference, fallback only
	MemoTemplate string `json:"memoTemplate"`      // ignored unless IsRegex
	Enabled     bool   `json:"enabled"`
}

// payeeRuleJSON mirrors PayeeRule with pointer fields so that persisted
// records carrying "accountId": null decode as the wildcard account and
// records written before the enabled flag existed decode as enabled.
type payeeRuleJSON struct {
	ID           int64  `json:"id"`
	AccountID    *int   `json:"accountId"`
	Pattern      string `json:"pattern"`
	IsRegex      bool   `json:"isRegex"`
	Replacement  string `json:"replacement"`
	CategoryID   string `json:"categoryId"`
	Category     string `json:"category,omitempty"`
	MemoTemplate string `json:"memoTemplate"`
	Enabled      *bool  `json:"enabled"`
}

// UnmarshalJSON decodes a rule, normalizing a null or missing accountId to 0
// and a missing enabled flag to true.
func (r *PayeeRule) UnmarshalJSON(data []byte) error {
	var raw payeeRuleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = raw.ID
	r.AccountID = 0
	if raw.AccountID != nil {
		r.AccountID = *raw.AccountID
	}
	r.Pattern = raw.Pattern
	r.IsRegex = raw.IsRegex
	r.Replacement = raw.Replacement
	r.CategoryID = raw.CategoryID
	r.Category = raw.Category
	r.MemoTemplate = raw.MemoTemplate
	r.Enabled = raw.Enabled == nil || *raw.Enabled
	return nil
}

// RuleUpdate is a partial-field update applied to an existing rule.
// Nil fields are left unchanged.
type RuleUpdate struct {
	AccountID    *int
	Pattern      *string
	IsRegex      *bool
	Replacement  *string
	CategoryID   *string
	MemoTemplate *string
	Enabled      *bool
}
