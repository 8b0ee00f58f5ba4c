package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// Storage keys. The key names are part of the persisted schema and shared
// with the backup document format.
const (
	KeyPayeeRules = "payee_rules"
	KeyCategories = "categories"
	KeyAccounts   = "accounts"
)

const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is the key-value persistence layer: a single sqlite table mapping
// collection keys to JSON documents.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database and ensures the schema is at
// the current version.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema when missing and records the version.
func migrate(db *sql.DB) error {
	ver, err := currentSchemaVersion(db)
	if err != nil {
		return err
	}
	if ver >= schemaVersion {
		return nil
	}

	if _, err := db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec("DELETE FROM schema_meta"); err != nil {
		return err
	}
	if _, err := db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}
	return nil
}

// currentSchemaVersion returns the version from schema_meta, or 0 for a
// fresh database.
func currentSchemaVersion(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_meta'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	var ver int
	err = db.QueryRow("SELECT version FROM schema_meta LIMIT 1").Scan(&ver)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return ver, err
}

// Get returns the raw JSON document stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set stores a raw JSON document under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// getJSON unmarshals the document under key into out. A missing key leaves
// out untouched and reports found=false.
func (s *Store) getJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// setJSON marshals v and stores it under key.
func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// Rules returns the stored rule list in insertion order.
func (s *Store) Rules(ctx context.Context) ([]model.PayeeRule, error) {
	var rules []model.PayeeRule
	if _, err := s.getJSON(ctx, KeyPayeeRules, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// SetRules replaces the stored rule list.
func (s *Store) SetRules(ctx context.Context, rules []model.PayeeRule) error {
	if rules == nil {
		rules = []model.PayeeRule{}
	}
	return s.setJSON(ctx, KeyPayeeRules, rules)
}

// Categories returns the stored categories, normalizing legacy records that
// were persisted as bare name strings or objects without an id.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	var raw []json.RawMessage
	if _, err := s.getJSON(ctx, KeyCategories, &raw); err != nil {
		return nil, err
	}

	var cats []model.Category
	for _, item := range raw {
		if c, ok := NormalizeCategory(item); ok {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

// SetCategories replaces the stored categories, deriving missing ids and
// dropping duplicates by id.
func (s *Store) SetCategories(ctx context.Context, cats []model.Category) error {
	unique := DedupeCategories(cats)
	return s.setJSON(ctx, KeyCategories, unique)
}

// Accounts returns the stored account list.
func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if _, err := s.getJSON(ctx, KeyAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetAccounts replaces the stored account list.
func (s *Store) SetAccounts(ctx context.Context, accounts []model.Account) error {
	if accounts == nil {
		accounts = []model.Account{}
	}
	return s.setJSON(ctx, KeyAccounts, accounts)
}

// ReplaceAll swaps all three collections in one transaction, so an import
// can never leave rules and categories out of step.
func (s *Store) ReplaceAll(ctx context.Context, rules []model.PayeeRule, cats []model.Category, accounts []model.Account) error {
	if rules == nil {
		rules = []model.PayeeRule{}
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	cats = DedupeCategories(cats)

	docs := map[string]any{
		KeyPayeeRules: rules,
		KeyCategories: cats,
		KeyAccounts:   accounts,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	for key, v := range docs {
		data, err := json.Marshal(v)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, string(data)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("replace %s: %w", key, err)
		}
	}
	return tx.Commit()
}
