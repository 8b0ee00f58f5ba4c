package export

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
	"github.com/budgetcsv-dev/budgetcsv/internal/rules"
)

// ErrUnknownAccount is returned when the requested scope cannot be
// identified; the export then consists of the header line alone.
var ErrUnknownAccount = errors.New("account not found")

// Provider supplies the rule scope and category lookup for one export
// batch. Both are loaded once before the row loop, so every row in a batch
// sees the same snapshot.
type Provider interface {
	RulesForAccount(ctx context.Context, accountID int) ([]model.PayeeRule, error)
	CategoryNames(ctx context.Context) (map[string]string, error)
}

// Scope identifies what is being exported: the account rules are scoped to
// and the bank family that drives date and amount parsing.
type Scope struct {
	AccountID int
	Family    model.BankFamily
}

// familyPolicy is the parser pair for a bank family, resolved once at
// scope setup rather than re-dispatched per row.
type familyPolicy struct {
	family model.BankFamily
	locale Locale
}

func policyFor(family model.BankFamily) (familyPolicy, bool) {
	switch family {
	case model.FamilyContinental:
		return familyPolicy{family: family, locale: LocaleFrench}, true
	case model.FamilyPlain:
		return familyPolicy{family: family, locale: LocaleEnglish}, true
	default:
		return familyPolicy{}, false
	}
}

// memoFallbackPrefix records the pre-rewrite payee when a matched rule
// produced no memo of its own.
const memoFallbackPrefix = "Original: "

// Exporter materializes raw transactions into budgeting-import CSV. The
// rules provider is optional: with a nil provider rows pass through with
// payees unrewritten, which is the explicit "rules unavailable" branch.
type Exporter struct {
	provider Provider
	log      zerolog.Logger
}

// New creates an Exporter.
func New(provider Provider, log zerolog.Logger) *Exporter {
	return &Exporter{provider: provider, log: log}
}

// Materialize runs the pipeline for one batch: resolve the rule scope and
// category map once, then normalize, match and split each row in input
// order. Per-row parse failures degrade that row's field and are logged;
// they never drop the row or abort the batch. Only an unidentifiable scope
// fails the call.
func (e *Exporter) Materialize(ctx context.Context, rawRows []model.RawTransaction, scope Scope) ([]model.NormalizedRow, error) {
	policy, ok := policyFor(scope.Family)
	if !ok {
		return nil, ErrUnknownAccount
	}

	matcher, err := e.matcherForScope(ctx, scope.AccountID)
	if err != nil {
		return nil, err
	}

	out := make([]model.NormalizedRow, 0, len(rawRows))
	for _, raw := range rawRows {
		out = append(out, e.normalizeRow(raw, policy, matcher))
	}
	return out, nil
}

// ToCSV materializes a batch and serializes it. On an unknown scope the
// returned document is the header line alone, alongside the error.
func (e *Exporter) ToCSV(ctx context.Context, rawRows []model.RawTransaction, scope Scope) (string, error) {
	out, err := e.Materialize(ctx, rawRows, scope)
	if err != nil {
		return Serialize(nil), err
	}
	return Serialize(out), nil
}

// matcherForScope loads the batch snapshot. An unknown account surfaces as
// ErrUnknownAccount; any other load failure degrades to rule-less export,
// logged, matching the per-row policy that a rewrite miss is recoverable
// while a dropped batch is not.
func (e *Exporter) matcherForScope(ctx context.Context, accountID int) (*rules.Matcher, error) {
	if e.provider == nil {
		return rules.NewMatcher(nil, nil, e.log), nil
	}

	ruleList, err := e.provider.RulesForAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrUnknownAccount) {
			return nil, err
		}
		e.log.Warn().Err(err).Msg("loading rules failed, exporting without rewrites")
		return rules.NewMatcher(nil, nil, e.log), nil
	}

	catNames, err := e.provider.CategoryNames(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("loading categories failed, category names unresolved")
		catNames = nil
	}

	e.log.Debug().Int("account", accountID).Int("rules", len(ruleList)).
		Int("categories", len(catNames)).Msg("export scope loaded")
	return rules.NewMatcher(ruleList, catNames, e.log), nil
}

// normalizeRow is the synchronous per-row step: no suspension, no store
// round-trips.
func (e *Exporter) normalizeRow(raw model.RawTransaction, policy familyPolicy, matcher *rules.Matcher) model.NormalizedRow {
	date, ok := NormalizeDate(raw.Date, policy.locale)
	if !ok {
		e.log.Warn().Str("date", raw.Date).Msg("unparseable date, keeping raw value")
	}

	payee := raw.Payee
	category := ""
	memo := ""

	if m := matcher.Match(raw.Payee); m.Matched {
		payee = m.Payee
		category = m.Category
		memo = m.Memo
		if memo == "" {
			memo = memoFallbackPrefix + raw.Payee
		}
	}

	split := ParseAmount(raw.Amount, policy.family)

	return model.NormalizedRow{
		Date:     date,
		Payee:    payee,
		Category: category,
		Memo:     memo,
		Outflow:  split.Outflow,
		Inflow:   split.Inflow,
	}
}

// Summary totals a batch's flows for reporting. Fields that fail decimal
// parsing are skipped; the CSV itself never depends on these values.
type Summary struct {
	Rows    int
	Outflow decimal.Decimal
	Inflow  decimal.Decimal
}

// Summarize computes flow totals over normalized rows.
func Summarize(rows []model.NormalizedRow) Summary {
	s := Summary{Rows: len(rows)}
	for _, r := range rows {
		if r.Outflow != "" {
			if d, err := decimal.NewFromString(r.Outflow); err == nil {
				s.Outflow = s.Outflow.Add(d)
			}
		}
		if r.Inflow != "" {
			if d, err := decimal.NewFromString(r.Inflow); err == nil {
				s.Inflow = s.Inflow.Add(d)
			}
		}
	}
	return s
}
