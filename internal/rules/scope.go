package rules

import "github.com/budgetcsv-dev/budgetcsv/internal/model"

// ResolveScope filters the full rule set down to the rules applicable to an
// account, preserving stored order. Account-specific rules are not ranked
// above wildcard rules: insertion order is the only priority signal, which
// is what makes first-match-wins meaningful.
//
// Querying the wildcard account itself returns only wildcard rules. Legacy
// records with a null accountId decode as 0, so they land in the wildcard
// scope here.
func ResolveScope(all []model.PayeeRule, accountID int) []model.PayeeRule {
	var scoped []model.PayeeRule
	for _, r := range all {
		if r.AccountID == accountID || r.AccountID == model.WildcardAccountID {
			scoped = append(scoped, r)
		}
	}
	return scoped
}
