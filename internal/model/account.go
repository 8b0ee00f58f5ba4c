package model

// WildcardAccountID is the reserved account id meaning "applies to all
// accounts" when used in a rule scope.
const WildcardAccountID = 0

// Account is a bank account rules can be scoped to.
type Account struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SeedAccount is a pre-configured account with its stable slug and the bank
// family that drives date and amount parsing during export.
type SeedAccount struct {
	ID     int
	Slug   string
	Name   string
	Family BankFamily
}

// SeedAccounts is the fixed registry of pre-created accounts. The wildcard
// entry carries no bank family and is never an export target.
var SeedAccounts = []SeedAccount{
	{ID: WildcardAccountID, Slug: "all", Name: "all"},
	{ID: 1, Slug: "desjardins-creditcard", Name: "Desjardins - Credit Card", Family: FamilyContinental},
	{ID: 2, Slug: "desjardins-bankaccount", Name: "Desjardins - Bank Account", Family: FamilyContinental},
	{ID: 3, Slug: "koho-bankaccount", Name: "Koho - Prepaid Card", Family: FamilyPlain},
}

// SeedAccountBySlug returns the seed account for a slug, if any.
func SeedAccountBySlug(slug string) (SeedAccount, bool) {
	for _, a := range SeedAccounts {
		if a.Slug == slug {
			return a, true
		}
	}
	return SeedAccount{}, false
}

// SeedAccountByID returns the seed account for a numeric id, if any.
func SeedAccountByID(id int) (SeedAccount, bool) {
	for _, a := range SeedAccounts {
		if a.ID == id {
			return a, true
		}
	}
	return SeedAccount{}, false
}

// IsSeedAccount reports whether an account id belongs to the pre-created
// set, which is protected from deletion.
func IsSeedAccount(id int) bool {
	_, ok := SeedAccountByID(id)
	return ok
}
