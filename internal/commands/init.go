package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/rules"
)

func newInitCommand(env *cliEnv) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed default categories and accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := st.Init(ctx); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			added := 0
			if seedPath != "" {
				seeds, err := rules.LoadSeedFile(seedPath)
				if err != nil {
					return err
				}
				svc := rules.NewService(st)
				added, err = svc.ImportSeed(ctx, seeds)
				if err != nil {
					return err
				}
			}

			logAudit(log, cfg.Database.Path, "init", "database", "")

			fmt.Printf("Initialized database at %s\n", cfg.Database.Path)
			if added > 0 {
				fmt.Printf("Seeded %d rules from %s\n", added, seedPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "rules", "", "YAML rule seed file to import")

	return cmd
}
