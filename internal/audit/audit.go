// Package audit keeps an append-only CSV trail of changes made to the books.
package audit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names what changed.
type Action string

const (
	ActionInit               Action = "init"
	ActionVerificationAdd    Action = "verification.add"
	ActionVerificationFile   Action = "verification.file"
	ActionVerificationRemove Action = "verification.remove"
	ActionRateSet            Action = "rate.set"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp      time.Time
	Actor          string
	Action         Action
	VerificationID string
	Label          string // e.g. "A2025-0007" once filed
	Details        string
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,actor,action,verification_id,label,details"

// Path is the audit log location under a books root.
func Path(root string) string {
	return filepath.Join(root, "logs", "audit-log.csv")
}

const (
	numFields    = 6
	colTimestamp = 0
	colActor     = 1
	colAction    = 2
	colVerID     = 3
	colLabel     = 4
	colDetails   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colActor] = e.Actor
	row[colAction] = string(e.Action)
	row[colVerID] = e.VerificationID
	row[colLabel] = e.Label
	row[colDetails] = e.Details
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
		Timestamp:      ts,
		Actor:          record[colActor],
		Action:         Action(record[colAction]),
		VerificationID: record[colVerID],
		Label:          record[colLabel],
		Details:        record[colDetails],
	}, nil
}

// Append writes entries to the audit log under root, creating the file and
// header if needed.
func Append(root string, entries ...Entry) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
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
	cw.Flush()
	return cw.Error()
}

// Read returns all entries of the audit log under root, or none when the log
// does not exist yet.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
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
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
