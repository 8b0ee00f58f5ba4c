package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/categories"
	"github.com/budgetcsv-dev/budgetcsv/internal/export"
	"github.com/budgetcsv-dev/budgetcsv/internal/importer"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/rules"
)

func newExportCommand(env *cliEnv) *cobra.Command {
	var account string
	var bankURL string
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <dump-file>",
		Short: "Convert a transaction dump into budgeting-import CSV",
		Long: `Reads a raw transaction dump (JSON or CSV), applies the payee rules
scoped to the target account, and writes an always-quoted six-column CSV
ready for budgeting-tool import.

The account decides how dates and amounts are parsed. Pass --account with
a slug or numeric id, or let --url detect it from the bank's website URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if account == "" {
				account = cfg.Export.Account
			}
			scope := resolveScope(account, bankURL)

			rawRows, err := readDump(args[0], format)
			if err != nil {
				return err
			}

			provider := storeProvider{
				rules: rules.NewService(st),
				cats:  categories.NewService(st),
			}
			exporter := export.New(provider, log)

			ctx := cmd.Context()
			rows, err := exporter.Materialize(ctx, rawRows, scope)
			if err != nil {
				// Header-only document, so downstream tooling still
				// sees a well-formed CSV.
				if werr := writeOut(outPath, export.Serialize(nil)); werr != nil {
					return werr
				}
				return err
			}
			if werr := writeOut(outPath, export.Serialize(rows)); werr != nil {
				return werr
			}

			summary := export.Summarize(rows)
			if summary.Rows == 0 {
				fmt.Fprintln(os.Stderr, "no rows extracted")
				return nil
			}
			fmt.Fprintf(os.Stderr, "Exported %d rows (outflow %s, inflow %s)\n",
				summary.Rows, summary.Outflow.StringFixed(2), summary.Inflow.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "target account slug or id (default from config)")
	cmd.Flags().StringVar(&bankURL, "url", "", "bank website URL to detect the account from")
	cmd.Flags().StringVar(&format, "format", "", "dump format: json or csv (default by file extension)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write CSV to file instead of stdout")

	return cmd
}

// resolveScope maps an account slug, id or bank URL to an export scope. An
// unresolvable target yields the zero scope, which the exporter rejects as
// an unknown account.
func resolveScope(account, bankURL string) export.Scope {
	if bankURL != "" {
		if seed, ok := model.DetectAccount(bankURL); ok {
			return export.Scope{AccountID: seed.ID, Family: seed.Family}
		}
		return export.Scope{}
	}
	if seed, ok := model.SeedAccountBySlug(account); ok {
		return export.Scope{AccountID: seed.ID, Family: seed.Family}
	}
	if id, err := strconv.Atoi(account); err == nil {
		if seed, ok := model.SeedAccountByID(id); ok {
			return export.Scope{AccountID: seed.ID, Family: seed.Family}
		}
	}
	return export.Scope{}
}

func readDump(path, format string) ([]model.RawTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump: %w", err)
	}
	defer f.Close()

	if format == "" {
		format = importer.DetectFormat(path)
	}
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return nil, fmt.Errorf("unknown dump format %q", format)
	}

	rows, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s dump: %w", format, err)
	}
	return rows, nil
}

func writeOut(path, doc string) error {
	if path == "" {
		fmt.Println(doc)
		return nil
	}
	if err := os.WriteFile(path, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// storeProvider adapts the rule and category services to the exporter's
// snapshot interface.
type storeProvider struct {
	rules *rules.Service
	cats  *categories.Service
}

func (p storeProvider) RulesForAccount(ctx context.Context, accountID int) ([]model.PayeeRule, error) {
	return p.rules.ForAccount(ctx, accountID)
}

func (p storeProvider) CategoryNames(ctx context.Context) (map[string]string, error) {
	return p.cats.NamesByID(ctx)
}
