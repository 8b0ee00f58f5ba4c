package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/accounts"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

func newAccountsCommand(env *cliEnv) *cobra.Command {
	accCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts rules can be scoped to",
	}
	accCmd.AddCommand(newAccountsListCommand(env))
	accCmd.AddCommand(newAccountsAddCommand(env))
	accCmd.AddCommand(newAccountsRenameCommand(env))
	accCmd.AddCommand(newAccountsRemoveCommand(env))
	accCmd.AddCommand(newAccountsDetectCommand())
	return accCmd
}

func newAccountsListCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			accountList, err := accounts.NewService(st).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range accountList {
				marker := ""
				if seed, ok := model.SeedAccountByID(a.ID); ok {
					marker = "  [" + seed.Slug
					if seed.Family != model.FamilyNone {
						marker += ", " + seed.Family.String()
					}
					marker += "]"
				}
				fmt.Printf("%d  %s%s\n", a.ID, a.Name, marker)
			}
			return nil
		},
	}
}

func newAccountsAddCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			acc, err := accounts.NewService(st).Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "account.add", strconv.Itoa(acc.ID), acc.Name)
			fmt.Printf("Added account %d (%s)\n", acc.ID, acc.Name)
			return nil
		},
	}
}

func newAccountsRenameCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := accounts.NewService(st).Rename(cmd.Context(), id, args[1]); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "account.rename", args[0], args[1])
			fmt.Printf("Renamed account %d to %s\n", id, args[1])
			return nil
		},
	}
}

func newAccountsRemoveCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an account (pre-created accounts are protected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}

			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := accounts.NewService(st).Remove(cmd.Context(), id); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "account.rm", args[0], "")
			fmt.Printf("Removed account %d\n", id)
			return nil
		},
	}
}

func newAccountsDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <url>",
		Short: "Show which account a bank website URL maps to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, ok := model.DetectAccount(args[0])
			if !ok {
				fmt.Printf("no account recognized for %s\n", args[0])
				return nil
			}
			fmt.Printf("%s (id %d, %s)\n", seed.Slug, seed.ID, seed.Family)
			return nil
		},
	}
}
