package ledger

import (
	"fmt"
	"time"
)

// ParseSageDate converts a Sage 300 numeric date (YYYYMMDD stored as a
// decimal) to a calendar date. Zero and malformed values return an
// error; callers degrade those to "no resolvable due date" rather than
// failing the report.
func ParseSageDate(raw int64) (time.Time, error) {
	if raw <= 0 {
		return time.Time{}, fmt.Errorf("ledger: empty date value %d", raw)
	}
	year := int(raw / 10000)
	month := int(raw / 100 % 100)
	day := int(raw % 100)
	if year < 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("ledger: date value %d out of range", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (e.g. Feb 30); reject anything that moved.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("ledger: date value %d not a calendar date", raw)
	}
	return t, nil
}
