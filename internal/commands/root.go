// Package commands wires the CLI surface: every subcommand resolves its
// services from the shared sqlite store and reports through zerolog.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/audit"
	"github.com/budgetcsv-dev/budgetcsv/internal/buildinfo"
	"github.com/budgetcsv-dev/budgetcsv/internal/config"
	"github.com/budgetcsv-dev/budgetcsv/internal/logger"
	"github.com/budgetcsv-dev/budgetcsv/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dbPath string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "budgetcsv",
		Short:   "Turn raw bank transactions into budgeting-import CSV",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the sqlite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	env := &cliEnv{dbPath: &dbPath, logLevel: &logLevel}

	rootCmd.AddCommand(newInitCommand(env))
	rootCmd.AddCommand(newExportCommand(env))
	rootCmd.AddCommand(newRulesCommand(env))
	rootCmd.AddCommand(newCategoriesCommand(env))
	rootCmd.AddCommand(newAccountsCommand(env))
	rootCmd.AddCommand(newBackupCommand(env))

	return rootCmd
}

// cliEnv resolves flag-or-config settings lazily, after cobra has parsed
// the flags.
type cliEnv struct {
	dbPath   *string
	logLevel *string
}

// load reads configuration and builds the logger, with flags winning over
// config file and env settings.
func (e *cliEnv) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if *e.dbPath != "" {
		cfg.Database.Path = *e.dbPath
	}
	level := cfg.Log.Level
	if *e.logLevel != "" {
		level = *e.logLevel
	}
	return cfg, logger.New(logger.ParseLevel(level)), nil
}

// logAudit records a mutation in the audit trail next to the database.
// Audit failures never fail the command that caused them.
func logAudit(log zerolog.Logger, dbPath, action, subject, details string) {
	entry := audit.NewEntry(action, subject, details)
	if err := audit.Append(filepath.Dir(dbPath), []audit.Entry{entry}); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("writing audit log failed")
	}
}

// openStore loads config and opens the database. The caller owns the close.
func (e *cliEnv) openStore() (*store.Store, config.Config, zerolog.Logger, error) {
	cfg, log, err := e.load()
	if err != nil {
		return nil, config.Config{}, zerolog.Nop(), err
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, config.Config{}, zerolog.Nop(), fmt.Errorf("opening database: %w", err)
	}
	return st, cfg, log, nil
}
