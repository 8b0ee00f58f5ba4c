// Package backup moves the full rule database through a portable JSON
// document, so a setup can be copied between machines or kept as a
// point-in-time snapshot.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/budgetcsv-dev/budgetcsv/internal/id"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/store"
)

const (
	// App identifies documents produced by this tool.
	App = "budgetcsv"
	// Version is the current document schema version.
	Version = 3
)

// Meta describes the provenance of a backup document.
type Meta struct {
	App        string    `json:"app"`
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
}

// Data holds the three persisted collections.
type Data struct {
	PayeeRules []model.PayeeRule `json:"payee_rules"`
	Categories []model.Category  `json:"categories"`
	Accounts   []model.Account   `json:"accounts"`
}

// Document is the wire form of a backup.
type Document struct {
	Meta Meta `json:"meta"`
	Data Data `json:"data"`
}

// Export reads every collection and assembles a backup document.
func Export(ctx context.Context, st *store.Store) (Document, error) {
	rules, err := st.Rules(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("reading rules: %w", err)
	}
	cats, err := st.Categories(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("reading categories: %w", err)
	}
	accounts, err := st.Accounts(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("reading accounts: %w", err)
	}
	return Document{
		Meta: Meta{App: App, Version: Version, ExportedAt: time.Now().UTC()},
		Data: Data{PayeeRules: rules, Categories: cats, Accounts: accounts},
	}, nil
}

// WriteTo serializes a document as indented JSON.
func WriteTo(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// rawData mirrors Data but defers decoding of each record so that legacy
// shapes (bare-string categories, rules without ids) can be normalized.
type rawData struct {
	PayeeRules []json.RawMessage `json:"payee_rules"`
	Categories []json.RawMessage `json:"categories"`
	Accounts   []model.Account   `json:"accounts"`
}

type rawDocument struct {
	Data *rawData `json:"data"`

	// Bare payloads exported without the meta envelope carry the
	// collections at the top level.
	PayeeRules []json.RawMessage `json:"payee_rules"`
	Categories []json.RawMessage `json:"categories"`
	Accounts   []model.Account   `json:"accounts"`
}

// Import parses a backup document, normalizes legacy record shapes and
// replaces every collection in a single transaction. Collections absent
// from the document are replaced with empty ones.
func Import(ctx context.Context, st *store.Store, r io.Reader) error {
	blob, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	var raw rawDocument
	if err := json.Unmarshal(blob, &raw); err != nil {
		return fmt.Errorf("parsing backup: %w", err)
	}
	data := rawData{
		PayeeRules: raw.PayeeRules,
		Categories: raw.Categories,
		Accounts:   raw.Accounts,
	}
	if raw.Data != nil {
		data = *raw.Data
	}

	cats := normalizeCategories(data.Categories)
	rules, err := normalizeRules(data.PayeeRules, cats)
	if err != nil {
		return err
	}
	accounts := data.Accounts
	if accounts == nil {
		accounts = []model.Account{}
	}

	if err := st.ReplaceAll(ctx, rules, cats, accounts); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	return nil
}

func normalizeCategories(raw []json.RawMessage) []model.Category {
	cats := make([]model.Category, 0, len(raw))
	for _, item := range raw {
		if c, ok := store.NormalizeCategory(item); ok {
			cats = append(cats, c)
		}
	}
	return store.DedupeCategories(cats)
}

func normalizeRules(raw []json.RawMessage, cats []model.Category) ([]model.PayeeRule, error) {
	nameToID := make(map[string]string, len(cats))
	for _, c := range cats {
		nameToID[strings.ToLower(c.Name)] = c.ID
	}

	rules := make([]model.PayeeRule, 0, len(raw))
	for i, item := range raw {
		var r model.PayeeRule
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("parsing rule %d: %w", i, err)
		}
		if r.Pattern == "" {
			continue
		}
		if r.ID == 0 {
			r.ID = id.NewRuleID()
		}
		if r.CategoryID == "" && r.Category != "" {
			if cid, ok := nameToID[strings.ToLower(r.Category)]; ok {
				r.CategoryID = cid
			} else {
				r.CategoryID = id.CategoryID(r.Category)
			}
		}
		rules = append(rules, r)
	}
	return rules, nil
}
