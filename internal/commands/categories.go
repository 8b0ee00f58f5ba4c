package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/categories"
)

func newCategoriesCommand(env *cliEnv) *cobra.Command {
	catCmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage budget categories",
	}
	catCmd.AddCommand(newCategoriesListCommand(env))
	catCmd.AddCommand(newCategoriesAddCommand(env))
	catCmd.AddCommand(newCategoriesRemoveCommand(env))
	return catCmd
}

func newCategoriesListCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			cats, err := categories.NewService(st).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				fmt.Println("no categories")
				return nil
			}
			for _, c := range cats {
				fmt.Printf("%s  %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newCategoriesAddCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			cat, err := categories.NewService(st).Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "category.add", cat.Name, cat.ID)
			fmt.Printf("Added category %s (%s)\n", cat.Name, cat.ID)
			return nil
		},
	}
}

func newCategoriesRemoveCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a category by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := categories.NewService(st).Remove(cmd.Context(), args[0]); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "category.rm", args[0], "")
			fmt.Printf("Removed category %s\n", args[0])
			return nil
		},
	}
}
