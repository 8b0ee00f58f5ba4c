// Package audit keeps an append-only CSV trail of mutations made to the
// rule database: rule and category edits, backup imports, seed loads.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Subject   string
	Details   string
	EntryID   string
}

// Header is the CSV header for audit.csv.
const Header = "timestamp,action,subject,details,entry_id"

const (
	numFields    = 5
	logFile      = "audit.csv"
	colTimestamp = 0
	colAction    = 1
	colSubject   = 2
	colDetails   = 3
	colEntryID   = 4
)

// NewEntry stamps an entry with the current time and a fresh id.
func NewEntry(action, subject, details string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Subject:   subject,
		Details:   details,
		EntryID:   uuid.NewString(),
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colSubject] = e.Subject
	row[colDetails] = e.Details
	row[colEntryID] = e.EntryID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    record[colAction],
		Subject:   record[colSubject],
		Details:   record[colDetails],
		EntryID:   record[colEntryID],
	}, nil
}

// Append writes entries to <dataDir>/audit.csv, creating the file and
// header if needed.
func Append(dataDir string, entries []Entry) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dataDir>/audit.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	path := filepath.Join(dataDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
