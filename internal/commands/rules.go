package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/budgetcsv-dev/budgetcsv/internal/categories"
	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/rules"
)

func newRulesCommand(env *cliEnv) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage payee rewrite rules",
	}
	rulesCmd.AddCommand(newRulesAddCommand(env))
	rulesCmd.AddCommand(newRulesListCommand(env))
	rulesCmd.AddCommand(newRulesUpdateCommand(env))
	rulesCmd.AddCommand(newRulesRemoveCommand(env))
	rulesCmd.AddCommand(newRulesEnableCommand(env, true))
	rulesCmd.AddCommand(newRulesEnableCommand(env, false))
	rulesCmd.AddCommand(newRulesTestCommand(env))
	rulesCmd.AddCommand(newRulesSearchCommand(env))
	rulesCmd.AddCommand(newRulesImportCommand(env))
	return rulesCmd
}

// parseAccountRef accepts a seed account slug or a numeric id.
func parseAccountRef(ref string) (int, error) {
	if ref == "" || ref == "all" {
		return model.WildcardAccountID, nil
	}
	if seed, ok := model.SeedAccountBySlug(ref); ok {
		return seed.ID, nil
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("unknown account %q", ref)
	}
	return id, nil
}

func parseRuleID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rule id %q", arg)
	}
	return id, nil
}

func newRulesAddCommand(env *cliEnv) *cobra.Command {
	var accountRef string
	var pattern string
	var isRegex bool
	var replacement string
	var category string
	var memo string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a payee rewrite rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			accountID, err := parseAccountRef(accountRef)
			if err != nil {
				return err
			}

			svc := rules.NewService(st)
			rule, err := svc.Add(cmd.Context(), rules.AddParams{
				AccountID:    accountID,
				Pattern:      pattern,
				IsRegex:      isRegex,
				Replacement:  replacement,
				CategoryName: category,
				MemoTemplate: memo,
			})
			if err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "rule.add", strconv.FormatInt(rule.ID, 10), rule.Pattern)
			fmt.Printf("Added rule %d (%s)\n", rule.ID, rule.Pattern)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "all", "account slug or id the rule is scoped to")
	cmd.Flags().StringVar(&pattern, "pattern", "", "literal substring or regex to match payees (required)")
	_ = cmd.MarkFlagRequired("pattern")
	cmd.Flags().BoolVar(&isRegex, "regex", false, "treat the pattern as a regular expression")
	cmd.Flags().StringVar(&replacement, "replacement", "", "new payee name")
	cmd.Flags().StringVar(&category, "category", "", "category name to assign")
	cmd.Flags().StringVar(&memo, "memo", "", "memo template, \\1..\\n substitute capture groups")

	return cmd
}

func newRulesListCommand(env *cliEnv) *cobra.Command {
	var accountRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules, optionally scoped to an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			svc := rules.NewService(st)

			var ruleList []model.PayeeRule
			if accountRef == "" {
				ruleList, err = svc.List(ctx)
			} else {
				var accountID int
				accountID, err = parseAccountRef(accountRef)
				if err != nil {
					return err
				}
				ruleList, err = svc.ForAccount(ctx, accountID)
			}
			if err != nil {
				return err
			}

			catNames, err := categories.NewService(st).NamesByID(ctx)
			if err != nil {
				return err
			}

			if len(ruleList) == 0 {
				fmt.Println("no rules")
				return nil
			}
			for _, r := range ruleList {
				printRule(r, catNames)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "show only rules visible to this account")

	return cmd
}

func printRule(r model.PayeeRule, catNames map[string]string) {
	kind := "substring"
	if r.IsRegex {
		kind = "regex"
	}
	state := ""
	if !r.Enabled {
		state = " [disabled]"
	}
	scope := "all accounts"
	if r.AccountID != model.WildcardAccountID {
		scope = fmt.Sprintf("account %d", r.AccountID)
		if seed, ok := model.SeedAccountByID(r.AccountID); ok {
			scope = seed.Slug
		}
	}
	category := catNames[r.CategoryID]
	if category == "" {
		category = r.Category
	}

	fmt.Printf("%d%s  %s %q -> %q", r.ID, state, kind, r.Pattern, r.Replacement)
	if category != "" {
		fmt.Printf("  category=%s", category)
	}
	if r.MemoTemplate != "" {
		fmt.Printf("  memo=%q", r.MemoTemplate)
	}
	fmt.Printf("  (%s)\n", scope)
}

func newRulesUpdateCommand(env *cliEnv) *cobra.Command {
	var accountRef string
	var pattern string
	var isRegex bool
	var replacement string
	var category string
	var memo string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of an existing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleID, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			var upd model.RuleUpdate
			if cmd.Flags().Changed("account") {
				accountID, err := parseAccountRef(accountRef)
				if err != nil {
					return err
				}
				upd.AccountID = &accountID
			}
			if cmd.Flags().Changed("pattern") {
				upd.Pattern = &pattern
			}
			if cmd.Flags().Changed("regex") {
				upd.IsRegex = &isRegex
			}
			if cmd.Flags().Changed("replacement") {
				upd.Replacement = &replacement
			}
			if cmd.Flags().Changed("category") {
				cat, err := categories.NewService(st).FindByName(ctx, category)
				if err != nil {
					return err
				}
				upd.CategoryID = &cat.ID
			}
			if cmd.Flags().Changed("memo") {
				upd.MemoTemplate = &memo
			}

			svc := rules.NewService(st)
			if err := svc.Update(ctx, ruleID, upd); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "rule.update", args[0], "")
			fmt.Printf("Updated rule %d\n", ruleID)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "account slug or id the rule is scoped to")
	cmd.Flags().StringVar(&pattern, "pattern", "", "literal substring or regex to match payees")
	cmd.Flags().BoolVar(&isRegex, "regex", false, "treat the pattern as a regular expression")
	cmd.Flags().StringVar(&replacement, "replacement", "", "new payee name")
	cmd.Flags().StringVar(&category, "category", "", "category name to assign")
	cmd.Flags().StringVar(&memo, "memo", "", "memo template")

	return cmd
}

func newRulesRemoveCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleID, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := rules.NewService(st).Remove(cmd.Context(), ruleID); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "rule.rm", args[0], "")
			fmt.Printf("Removed rule %d\n", ruleID)
			return nil
		},
	}
}

func newRulesEnableCommand(env *cliEnv, enable bool) *cobra.Command {
	use, short, action, verb := "enable <id>", "Enable a rule", "rule.enable", "enabled"
	if !enable {
		use, short, action, verb = "disable <id>", "Disable a rule without removing it", "rule.disable", "disabled"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleID, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := rules.NewService(st).SetEnabled(cmd.Context(), ruleID, enable); err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, action, args[0], "")
			fmt.Printf("Rule %d %s\n", ruleID, verb)
			return nil
		},
	}
}

func newRulesTestCommand(env *cliEnv) *cobra.Command {
	var accountRef string

	cmd := &cobra.Command{
		Use:   "test <payee>",
		Short: "Show what the rules would do to a payee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			accountID, err := parseAccountRef(accountRef)
			if err != nil {
				return err
			}

			ruleList, err := rules.NewService(st).ForAccount(ctx, accountID)
			if err != nil {
				return err
			}
			catNames, err := categories.NewService(st).NamesByID(ctx)
			if err != nil {
				return err
			}

			m := rules.NewMatcher(ruleList, catNames, log).Match(args[0])
			if !m.Matched {
				fmt.Printf("no rule matches %q\n", args[0])
				return nil
			}
			fmt.Printf("payee:    %s\n", m.Payee)
			if m.Category != "" {
				fmt.Printf("category: %s\n", m.Category)
			}
			if m.Memo != "" {
				fmt.Printf("memo:     %s\n", m.Memo)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "all", "account scope to test against")

	return cmd
}

func newRulesSearchCommand(env *cliEnv) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find rules by fuzzy pattern or replacement match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, _, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			ruleList, err := rules.NewService(st).List(ctx)
			if err != nil {
				return err
			}
			catNames, err := categories.NewService(st).NamesByID(ctx)
			if err != nil {
				return err
			}

			ranked := rankRules(ruleList, args[0])
			if len(ranked) == 0 {
				fmt.Println("no matching rules")
				return nil
			}
			if len(ranked) > limit {
				ranked = ranked[:limit]
			}
			for _, r := range ranked {
				printRule(r, catNames)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")

	return cmd
}

// rankRules orders rules by edit distance between the query and the closer
// of pattern and replacement. Substring hits rank before fuzzy ones.
func rankRules(ruleList []model.PayeeRule, query string) []model.PayeeRule {
	q := strings.ToLower(query)

	type scored struct {
		rule model.PayeeRule
		dist int
	}
	var matches []scored
	for _, r := range ruleList {
		pattern := strings.ToLower(r.Pattern)
		replacement := strings.ToLower(r.Replacement)

		dist := levenshtein.ComputeDistance(q, pattern)
		if d := levenshtein.ComputeDistance(q, replacement); replacement != "" && d < dist {
			dist = d
		}
		if strings.Contains(pattern, q) || strings.Contains(replacement, q) {
			dist = 0
		}
		if dist > len(q) {
			continue
		}
		matches = append(matches, scored{rule: r, dist: dist})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	out := make([]model.PayeeRule, len(matches))
	for i, m := range matches {
		out[i] = m.rule
	}
	return out
}

func newRulesImportCommand(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Import rules from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, log, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			seeds, err := rules.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			added, err := rules.NewService(st).ImportSeed(cmd.Context(), seeds)
			if err != nil {
				return err
			}

			logAudit(log, cfg.Database.Path, "rule.import", args[0], fmt.Sprintf("%d rules", added))
			fmt.Printf("Imported %d rules from %s\n", added, args[0])
			return nil
		},
	}
}
