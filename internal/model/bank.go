package model

import (
	"net/url"
	"strings"
)

// BankFamily selects the date locale and amount policy used when exporting
// an account. It is a closed set: every exportable account is bound to
// exactly one family at registration time.
type BankFamily int

const (
	// FamilyNone marks accounts that are not export targets (the wildcard).
	FamilyNone BankFamily = iota
	// FamilyContinental covers banks formatting amounts with a comma
	// decimal separator, dot grouping and a leading + for credits, and
	// dates as French "<day> <month-name>".
	FamilyContinental
	// FamilyPlain covers banks formatting amounts with a plain decimal
	// point and a + prefix for credits, and dates as English
	// "<Month> <day>, <year>".
	FamilyPlain
)

// String returns the family tag used in logs and CLI output.
func (f BankFamily) String() string {
	switch f {
	case FamilyContinental:
		return "continental"
	case FamilyPlain:
		return "plain"
	default:
		return "none"
	}
}

// bankAliases maps normalized hostname segments to canonical bank names.
var bankAliases = map[string]string{
	"desjardins": "desjardins",
	"dj":         "desjardins",
	"desj":       "desjardins",
	"desjardin":  "desjardins",

	"koho": "koho",

	"bmo":            "bmo",
	"bankofmontreal": "bmo",

	"rbc":               "rbc",
	"royalbank":         "rbc",
	"rbcroyalbank":      "rbc",
	"royalbankofcanada": "rbc",

	"td":              "td",
	"tdbank":          "td",
	"torontodominion": "td",

	"scotia":     "scotiabank",
	"scotiabank": "scotiabank",

	"tangerine": "tangerine",
	"cibc":      "cibc",

	"nbc":          "nbc",
	"nationalbank": "nbc",
	"bnc":          "nbc",

	"hsbc":    "hsbc",
	"simplii": "simplii",

	"eqbank": "eqbank",
	"eq":     "eqbank",
}

// extractDomainName pulls the registrable-name segment out of hostname
// parts, skipping a "co"/"com" second-level label (rbc.co.uk -> rbc).
func extractDomainName(parts []string) string {
	var name string
	switch {
	case len(parts) >= 3 && (parts[len(parts)-2] == "co" || parts[len(parts)-2] == "com"):
		name = parts[len(parts)-3]
	case len(parts) >= 2:
		name = parts[len(parts)-2]
	case len(parts) == 1:
		name = parts[0]
	}

	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DetectBank resolves a URL or bare hostname to a canonical bank name.
// Returns "" when the host is not a known bank.
func DetectBank(rawURL string) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	host = strings.TrimPrefix(host, "www.")
	return bankAliases[extractDomainName(strings.Split(host, "."))]
}

// DetectAccount resolves a bank URL to a seed account, using path heuristics
// to tell account types of the same bank apart.
func DetectAccount(rawURL string) (SeedAccount, bool) {
	bank := DetectBank(rawURL)
	if bank == "" {
		return SeedAccount{}, false
	}

	var path string
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	switch bank {
	case "desjardins":
		if strings.Contains(path, "/sommaire-perso/sommaire/sommaire-spa/CC/") {
			return SeedAccountBySlug("desjardins-creditcard")
		}
		return SeedAccountBySlug("desjardins-bankaccount")
	case "koho":
		return SeedAccountBySlug("koho-bankaccount")
	default:
		// Recognized bank without a configured account mapping.
		return SeedAccount{}, false
	}
}
