package model

// RawTransaction is one row handed over by the scraping side: free-text,
// locale-dependent, never validated at creation.
type RawTransaction struct {
	Date   string `json:"date"`
	Payee  string `json:"payee"`
	Amount string `json:"amount"`
}

// NormalizedRow is one pipeline output row, pre-serialization.
// Exactly one of Outflow/Inflow is non-empty.
type NormalizedRow struct {
	Date     string // YYYY-MM-DD, or the raw string if un-parseable
	Payee    string
	Category string // display name, "" if none
	Memo     string
	Outflow  string // unsigned decimal string, "" on inflow rows
	Inflow   string // unsigned decimal string, "" on outflow rows
}

// AmountSplit is the signed split produced by an amount parser.
// Exactly one field holds the unsigned magnitude; the other is "".
type AmountSplit struct {
	Outflow string
	Inflow  string
}
