package journal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/tally/internal/ledger"
)

// Series prefixes every verification label.
const Series = "A"

// FormatLabel returns a label like "A2025-0007" for number 7 of 2025.
func FormatLabel(year, number int) string {
	return fmt.Sprintf("%s%04d-%04d", Series, year, number)
}

// ParseLabel parses "A2025-0007" into year and number.
func ParseLabel(label string) (year, number int, err error) {
	rest, ok := strings.CutPrefix(label, Series)
	if !ok {
		return 0, 0, fmt.Errorf("invalid label %q: missing series %q", label, Series)
	}
	yearPart, numPart, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid label format: %q", label)
	}
	if year, err = strconv.Atoi(yearPart); err != nil {
		return 0, 0, fmt.Errorf("invalid year in label %q: %w", label, err)
	}
	if number, err = strconv.Atoi(numPart); err != nil {
		return 0, 0, fmt.Errorf("invalid number in label %q: %w", label, err)
	}
	if number <= 0 {
		return 0, 0, fmt.Errorf("invalid number in label %q: must be positive", label)
	}
	return year, number, nil
}

// Label returns the label of a filed verification, or "" when unfiled.
func Label(v *ledger.Verification) string {
	if v.Number <= 0 {
		return ""
	}
	year, _, err := monthOf(v.Date)
	if err != nil {
		return ""
	}
	return FormatLabel(year, v.Number)
}
