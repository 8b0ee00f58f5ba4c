package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/backup"
)

func newBackupCommand(env *cliEnv) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore the full rule database as JSON",
	}
	backupCmd.AddCommand(newBackupExportCommand(env))
	backupCmd.AddCommand(newBackupImportCommand(env))
	return backupCmd
}

func newBackupExportCommand(env *cliEnv) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write rules, categories and accounts as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := backup.Export(cmd.Context(), st)
			if err != nil {
				return err
			}

			w := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating backup file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := backup.WriteTo(w, doc); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Printf("Backup written to %s (%d rules, %d categories, %d accounts)\n",
					outPath, len(doc.Data.PayeeRules), len(doc.Data.Categories), len(doc.Data.Accounts))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	return cmd
}

func newBackupImportCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace all collections from a backup document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening backup: %w", err)
			}
			defer f.Close()

			if err := backup.Import(cmd.Context(), st, f); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "backup.import", args[0], "")
			fmt.Printf("Restored backup from %s\n", args[0])
			return nil
		},
	}
}
