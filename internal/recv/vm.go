package recv

import (
	"time"

	"github.com/Arooma21/Odoo-Dashboard/internal/aging"
)

// SummaryRow is one dashboard row, rounded to the display precision.
type SummaryRow struct {
	CustomerCode string  `json:"customer_code"`
	CustomerName string  `json:"customer_name"`
	Current      float64 `json:"current"`
	D0_30        float64 `json:"d0_30"`
	D31_60       float64 `json:"d31_60"`
	D61_90       float64 `json:"d61_90"`
	D90Plus      float64 `json:"d90p"`
	Total        float64 `json:"total"`
}

// BucketTotals carries the grand totals across all retained customers.
type BucketTotals struct {
	Current float64 `json:"current"`
	D0_30   float64 `json:"d0_30"`
	D31_60  float64 `json:"d31_60"`
	D61_90  float64 `json:"d61_90"`
	D90Plus float64 `json:"d90p"`
	Total   float64 `json:"total"`
}

// SummaryReport is the full dashboard payload. SnapshotID and AsOf tell
// callers which snapshot served the report, so drill-down requests can
// be correlated against it.
type SummaryReport struct {
	SnapshotID string       `json:"snapshot_id"`
	AsOf       time.Time    `json:"as_of"`
	Rows       []SummaryRow `json:"rows"`
	Totals     BucketTotals `json:"totals"`
}

// DetailRow is one open item behind a summary cell. DueDate is an ISO
// date string, empty when the ledger date could not be resolved.
type DetailRow struct {
	CustomerCode string  `json:"customer_code"`
	CustomerName string  `json:"customer_name"`
	ItemID       string  `json:"item_id"`
	DueDate      string  `json:"due_date"`
	OrderRef     string  `json:"order_ref"`
	PORef        string  `json:"po_ref"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
}

// DetailReport is a drill-down payload for one bucket.
type DetailReport struct {
	SnapshotID string       `json:"snapshot_id"`
	AsOf       time.Time    `json:"as_of"`
	Bucket     aging.Bucket `json:"bucket"`
	Rows       []DetailRow  `json:"rows"`
	Subtotal   float64      `json:"subtotal"`
}
