// Package ledger reads open receivable items from a Sage 300 company
// database (AROBL open-item table joined to ARCUS customers) on SQL
// Server. The query only filters to open items; bucket classification
// happens in the aging engine so one report always sees one consistent
// as-of instant.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Arooma21/Odoo-Dashboard/internal/aging"
)

// ErrSourceUnavailable marks connectivity or query failures against the
// ledger. Callers must surface it distinctly; an unreachable ledger is
// not the same as a ledger with no open items.
var ErrSourceUnavailable = errors.New("ledger: source unavailable")

// Repository provides read access to the AROBL open-item table.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository over an open connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const openItemsQuery = `
SELECT
    LTRIM(RTRIM(ob.IDCUST)),
    COALESCE(cu.NAMECUST, ''),
    COALESCE(ob.IDINVC, ''),
    CAST(ob.AMTDUEHC AS DECIMAL(18,3)),
    CAST(ob.DATEDUE AS INT),
    COALESCE(ob.IDORDERNBR, ''),
    COALESCE(ob.IDCUSTPO, ''),
    COALESCE(ob.DESCINVC, ''),
    COALESCE(CAST(ob.SWPAID AS VARCHAR(8)), '')
FROM AROBL ob
LEFT JOIN ARCUS cu ON cu.IDCUST = ob.IDCUST
WHERE (ob.SWPAID IN ('0', 0) OR ob.SWPAID IS NULL)
  AND ABS(ob.AMTDUEHC) <> 0
ORDER BY ob.IDCUST, ob.IDINVC`

// FetchOpenItems returns every open item in the ledger. Database errors
// are wrapped in ErrSourceUnavailable.
func (r *Repository) FetchOpenItems(ctx context.Context) ([]aging.OpenItem, error) {
	rows, err := r.db.QueryContext(ctx, openItemsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query open items: %v", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var items []aging.OpenItem
	for rows.Next() {
		var (
			it      aging.OpenItem
			dueRaw  sql.NullInt64
			paidRaw string
		)
		if err := rows.Scan(&it.CustomerCode, &it.CustomerName, &it.ItemID, &it.Amount, &dueRaw, &it.OrderRef, &it.PORef, &it.Description, &paidRaw); err != nil {
			return nil, fmt.Errorf("%w: scan open item: %v", ErrSourceUnavailable, err)
		}
		if dueRaw.Valid {
			// Unparseable stored dates leave the due date unresolved;
			// the classifier treats those items as current.
			it.DueDate, _ = ParseSageDate(dueRaw.Int64)
		}
		it.Paid = paidStatus(paidRaw)
		it.OrderRef = strings.TrimSpace(it.OrderRef)
		it.PORef = strings.TrimSpace(it.PORef)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read open items: %v", ErrSourceUnavailable, err)
	}
	return items, nil
}

// paidStatus maps the SWPAID switch to the tri-state flag. The column is
// nullable in older company databases; NULL means the flag is unknown
// and the item stays in the report.
func paidStatus(raw string) aging.PaidStatus {
	switch strings.TrimSpace(raw) {
	case "":
		return aging.PaidStatusUnknown
	case "0":
		return aging.PaidStatusUnpaid
	default:
		return aging.PaidStatusPaid
	}
}
