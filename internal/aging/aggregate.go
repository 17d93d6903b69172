package aging

import (
	"sort"
	"strings"
	"time"
)

// Summarize groups open items by customer, sums each aging bucket, and
// drops customers whose open items net to zero. Rows come back ordered
// by customer code so pagination and diffs are deterministic.
//
// Every item in one report is classified against the same asOf instant;
// callers drilling into a summary must reuse that instant or the detail
// views will not reconcile.
func Summarize(items []OpenItem, asOf time.Time) []CustomerSummary {
	byCode := make(map[string]*CustomerSummary)
	for _, it := range items {
		if !it.Open() {
			continue
		}
		code := strings.TrimSpace(it.CustomerCode)
		row, ok := byCode[code]
		if !ok {
			row = &CustomerSummary{CustomerCode: code}
			byCode[code] = row
		}
		if row.CustomerName == "" {
			row.CustomerName = strings.TrimSpace(it.CustomerName)
		}
		row.add(Classify(it.ItemID, it.DueDate, it.Amount, asOf), it.Amount)
	}

	out := make([]CustomerSummary, 0, len(byCode))
	for _, row := range byCode {
		if isZero(row.Total) {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerCode < out[j].CustomerCode })
	return out
}

// Detail lists the open items behind one customer+bucket summary cell.
// The customer is matched by code when ref.Code is set, otherwise by
// trimmed exact name. Two netting checks keep the drill-down consistent
// with the summary: a customer whose items net to zero is absent from
// the summary, so its details are empty too; and a bucket whose items
// offset each other nets to zero on the dashboard, so it yields no rows
// even though individual amounts are nonzero.
//
// Rows are ordered by due date descending then item ID, surfacing the
// most recently overdue items first.
func Detail(items []OpenItem, ref CustomerRef, bucket Bucket, asOf time.Time) []DetailRow {
	code := strings.TrimSpace(ref.Code)
	name := strings.TrimSpace(ref.Name)
	if code == "" && name == "" {
		return nil
	}

	var rows []DetailRow
	var customerNet, bucketNet float64
	for _, it := range items {
		if !it.Open() {
			continue
		}
		if code != "" {
			if strings.TrimSpace(it.CustomerCode) != code {
				continue
			}
		} else if strings.TrimSpace(it.CustomerName) != name {
			continue
		}
		customerNet += it.Amount
		if Classify(it.ItemID, it.DueDate, it.Amount, asOf) != bucket {
			continue
		}
		bucketNet += it.Amount
		rows = append(rows, detailRow(it))
	}
	if isZero(customerNet) || isZero(bucketNet) {
		return nil
	}
	sortDetailRows(rows, false)
	return rows
}

// DetailForBucket lists every open item in one bucket across all
// customers, restricted to the customer set the summary retains so the
// page total reconciles against the summary column for that bucket.
// Rows are ordered by customer name, then due date descending, then
// item ID.
func DetailForBucket(items []OpenItem, bucket Bucket, asOf time.Time) []DetailRow {
	customerNet := make(map[string]float64)
	bucketNet := make(map[string]float64)
	for _, it := range items {
		if !it.Open() {
			continue
		}
		code := strings.TrimSpace(it.CustomerCode)
		customerNet[code] += it.Amount
		if Classify(it.ItemID, it.DueDate, it.Amount, asOf) == bucket {
			bucketNet[code] += it.Amount
		}
	}

	var rows []DetailRow
	for _, it := range items {
		if !it.Open() {
			continue
		}
		code := strings.TrimSpace(it.CustomerCode)
		if isZero(customerNet[code]) || isZero(bucketNet[code]) {
			continue
		}
		if Classify(it.ItemID, it.DueDate, it.Amount, asOf) != bucket {
			continue
		}
		rows = append(rows, detailRow(it))
	}
	sortDetailRows(rows, true)
	return rows
}

func detailRow(it OpenItem) DetailRow {
	return DetailRow{
		CustomerCode: strings.TrimSpace(it.CustomerCode),
		CustomerName: strings.TrimSpace(it.CustomerName),
		ItemID:       it.ItemID,
		DueDate:      it.DueDate,
		OrderRef:     it.OrderRef,
		PORef:        it.PORef,
		Description:  it.Description,
		Amount:       it.Amount,
	}
}

func sortDetailRows(rows []DetailRow, byCustomer bool) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if byCustomer && a.CustomerName != b.CustomerName {
			return a.CustomerName < b.CustomerName
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.After(b.DueDate)
		}
		return a.ItemID < b.ItemID
	})
}
