package aging

import (
	"strings"
	"time"
)

// Bucket identifies one of the fixed aging periods used by the
// receivables report.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	BucketD0_30   Bucket = "d0_30"
	BucketD31_60  Bucket = "d31_60"
	BucketD61_90  Bucket = "d61_90"
	BucketD90Plus Bucket = "d90p"
)

// AllBuckets lists every bucket in report order.
var AllBuckets = []Bucket{BucketCurrent, BucketD0_30, BucketD31_60, BucketD61_90, BucketD90Plus}

// ParseBucket normalises a raw bucket token. Unknown tokens fall back to
// d0_30 so a bad filter narrows the report instead of failing it.
func ParseBucket(raw string) Bucket {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(raw))); b {
	case BucketCurrent, BucketD0_30, BucketD31_60, BucketD61_90, BucketD90Plus:
		return b
	default:
		return BucketD0_30
	}
}

// Label returns the display heading used on the dashboard.
func (b Bucket) Label() string {
	switch b {
	case BucketCurrent:
		return "Current"
	case BucketD0_30:
		return "0-30 Days"
	case BucketD31_60:
		return "31-60 Days"
	case BucketD61_90:
		return "61-90 Days"
	case BucketD90Plus:
		return "Over 90 Days"
	default:
		return string(b)
	}
}

// Classify assigns an open item to exactly one aging bucket.
//
// Negative items whose identifier starts with P or C (prepayments and
// credit memos) are forced to current regardless of due date. Items
// without a resolvable due date cannot be overdue and are also current.
// Everything else buckets on whole days between due date and asOf, both
// truncated to calendar dates.
func Classify(itemID string, dueDate time.Time, amount float64, asOf time.Time) Bucket {
	if amount < 0 && hasCreditPrefix(itemID) {
		return BucketCurrent
	}
	if dueDate.IsZero() {
		return BucketCurrent
	}
	age := daysBetween(dueDate, asOf)
	switch {
	case age < 0:
		return BucketCurrent
	case age <= 30:
		return BucketD0_30
	case age <= 60:
		return BucketD31_60
	case age <= 90:
		return BucketD61_90
	default:
		return BucketD90Plus
	}
}

func hasCreditPrefix(itemID string) bool {
	if itemID == "" {
		return false
	}
	switch itemID[0] {
	case 'P', 'p', 'C', 'c':
		return true
	}
	return false
}

// daysBetween returns whole calendar days from one instant to another,
// ignoring time-of-day. Negative when to precedes from.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
