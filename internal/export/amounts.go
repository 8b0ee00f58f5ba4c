package export

import (
	"strings"
	"unicode"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// ParseAmount converts a raw, locale-formatted amount string into the
// signed outflow/inflow split for a bank family. Pure string manipulation:
// no float conversion, no rounding, so currency text survives untouched.
func ParseAmount(raw string, family model.BankFamily) model.AmountSplit {
	switch family {
	case model.FamilyContinental:
		return parseContinentalAmount(raw)
	case model.FamilyPlain:
		return parsePlainAmount(raw)
	default:
		return model.AmountSplit{Outflow: raw}
	}
}

// parseContinentalAmount handles "," as decimal separator, "." as thousands
// grouping, a "$" currency symbol and a leading "+" marking credits.
// "+1 234,56$" -> inflow "1234.56"; "45,00$" -> outflow "45.00".
func parseContinentalAmount(raw string) model.AmountSplit {
	amount := stripSpace(raw)
	amount = strings.Replace(amount, "$", "", 1)
	amount = strings.ReplaceAll(amount, ".", "") // thousands grouping
	amount = strings.Replace(amount, ",", ".", 1)

	isInflow := strings.HasPrefix(amount, "+")
	magnitude := keepDigitsAndDot(amount)

	if isInflow {
		return model.AmountSplit{Inflow: magnitude}
	}
	return model.AmountSplit{Outflow: magnitude}
}

// parsePlainAmount handles a plain decimal point with "+" and "$" prefixes
// and "," grouping. The sign is detected before stripping.
func parsePlainAmount(raw string) model.AmountSplit {
	isInflow := strings.Contains(raw, "+")

	amount := stripSpace(raw)
	amount = strings.ReplaceAll(amount, "+", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, ",", "")

	if isInflow {
		return model.AmountSplit{Inflow: amount}
	}
	return model.AmountSplit{Outflow: amount}
}

// stripSpace removes all whitespace, including the non-breaking spaces some
// banks use as thousands separators.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func keepDigitsAndDot(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
}
