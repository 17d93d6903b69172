// Package aging classifies open receivable items into time-since-due
// buckets and aggregates them into per-customer reports. All functions
// are pure: one item set and one as-of instant produce one report, and
// summary and detail views computed from the same inputs reconcile.
package aging

import (
	"math"
	"time"
)

// PaidStatus mirrors the tri-state paid flag carried by the ledger.
// Items with an unknown flag are treated as open.
type PaidStatus string

const (
	PaidStatusPaid    PaidStatus = "paid"
	PaidStatusUnpaid  PaidStatus = "unpaid"
	PaidStatusUnknown PaidStatus = "unknown"
)

// OpenItem is one unpaid invoice or credit line from the ledger.
type OpenItem struct {
	CustomerCode string
	CustomerName string
	ItemID       string
	Amount       float64
	DueDate      time.Time // zero when the stored date could not be resolved
	OrderRef     string
	PORef        string
	Description  string
	Paid         PaidStatus
}

// Open reports whether the item enters the aging pipeline: not marked
// paid and with a nonzero remaining amount after rounding.
func (i OpenItem) Open() bool {
	return i.Paid != PaidStatusPaid && !isZero(i.Amount)
}

// CustomerSummary is one dashboard row: five bucket totals plus the net
// open balance for a single customer. Computed fresh per report, never
// persisted.
type CustomerSummary struct {
	CustomerCode string
	CustomerName string
	Current      float64
	D0_30        float64
	D31_60       float64
	D61_90       float64
	D90Plus      float64
	Total        float64
}

// BucketTotal returns the summary cell for a bucket.
func (s CustomerSummary) BucketTotal(b Bucket) float64 {
	switch b {
	case BucketCurrent:
		return s.Current
	case BucketD0_30:
		return s.D0_30
	case BucketD31_60:
		return s.D31_60
	case BucketD61_90:
		return s.D61_90
	case BucketD90Plus:
		return s.D90Plus
	default:
		return 0
	}
}

func (s *CustomerSummary) add(b Bucket, amount float64) {
	switch b {
	case BucketCurrent:
		s.Current += amount
	case BucketD0_30:
		s.D0_30 += amount
	case BucketD31_60:
		s.D31_60 += amount
	case BucketD61_90:
		s.D61_90 += amount
	case BucketD90Plus:
		s.D90Plus += amount
	}
	s.Total += amount
}

// DetailRow is one open item behind a summary cell.
type DetailRow struct {
	CustomerCode string
	CustomerName string
	ItemID       string
	DueDate      time.Time
	OrderRef     string
	PORef        string
	Description  string
	Amount       float64
}

// CustomerRef selects a customer for a drill-down: by code when set,
// otherwise by trimmed exact name.
type CustomerRef struct {
	Code string
	Name string
}

// Amounts are ledger decimals carried as float64; equality is never
// tested directly. Zero means |v| rounds to at most epsilon at three
// decimal places.
const epsilon = 0.0005

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func isZero(v float64) bool {
	return math.Abs(round3(v)) <= epsilon
}
