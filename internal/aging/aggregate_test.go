package aging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func item(code string, id string, amount float64, daysAgo int) OpenItem {
	return OpenItem{
		CustomerCode: code,
		CustomerName: "Customer " + code,
		ItemID:       id,
		Amount:       amount,
		DueDate:      due(daysAgo),
		Paid:         PaidStatusUnpaid,
	}
}

func TestSummarizeGroupsAndOrders(t *testing.T) {
	items := []OpenItem{
		item("B100", "IN5", 250, 45),
		item("A100", "IN1", 500, 10),
		item("A100", "IN2", 120.250, 70),
		item("B100", "IN6", 75.5, -3),
	}

	rows := Summarize(items, asOf)
	require.Len(t, rows, 2)
	require.Equal(t, "A100", rows[0].CustomerCode)
	require.Equal(t, "B100", rows[1].CustomerCode)

	require.InDelta(t, 500, rows[0].D0_30, 1e-9)
	require.InDelta(t, 120.250, rows[0].D61_90, 1e-9)
	require.InDelta(t, 620.250, rows[0].Total, 1e-9)

	require.InDelta(t, 250, rows[1].D31_60, 1e-9)
	require.InDelta(t, 75.5, rows[1].Current, 1e-9)
	require.InDelta(t, 325.5, rows[1].Total, 1e-9)
}

func TestSummarizeSkipsPaidAndZeroItems(t *testing.T) {
	paid := item("A100", "IN1", 900, 50)
	paid.Paid = PaidStatusPaid
	zero := item("A100", "IN2", 0.0004, 50)
	unknown := item("A100", "IN3", 40, 50)
	unknown.Paid = PaidStatusUnknown

	rows := Summarize([]OpenItem{paid, zero, unknown}, asOf)
	require.Len(t, rows, 1)
	// Unknown paid flags count as open; paid and near-zero items never enter.
	require.InDelta(t, 40, rows[0].Total, 1e-9)
}

func TestSummarizeDropsNetZeroCustomers(t *testing.T) {
	items := []OpenItem{
		item("A100", "IN1", 100.00, 10),
		item("A100", "NM1", -100.00, 10),
		item("B100", "IN2", 55, 10),
	}
	rows := Summarize(items, asOf)
	require.Len(t, rows, 1)
	require.Equal(t, "B100", rows[0].CustomerCode)
}

func TestSummarizeOffsetAcrossBucketsStillDropsCustomer(t *testing.T) {
	// Invoice and credit land in different buckets but net to zero, so the
	// customer vanishes from the report and both drill-downs are empty.
	items := []OpenItem{
		item("A100", "IN1", 500, 10),
		item("A100", "IN2", -500, 40),
	}
	require.Empty(t, Summarize(items, asOf))
	require.Empty(t, Detail(items, CustomerRef{Code: "A100"}, BucketD0_30, asOf))
	require.Empty(t, Detail(items, CustomerRef{Code: "A100"}, BucketD31_60, asOf))
	require.Empty(t, DetailForBucket(items, BucketD0_30, asOf))
	require.Empty(t, DetailForBucket(items, BucketD31_60, asOf))
}

func TestDetailMatchesByCodeOrName(t *testing.T) {
	items := []OpenItem{
		item("A100", "IN1", 500, 10),
		item("B100", "IN2", 300, 10),
	}
	byCode := Detail(items, CustomerRef{Code: "A100"}, BucketD0_30, asOf)
	require.Len(t, byCode, 1)
	require.Equal(t, "IN1", byCode[0].ItemID)

	byName := Detail(items, CustomerRef{Name: " Customer B100 "}, BucketD0_30, asOf)
	require.Len(t, byName, 1)
	require.Equal(t, "IN2", byName[0].ItemID)

	require.Empty(t, Detail(items, CustomerRef{}, BucketD0_30, asOf))
}

func TestDetailZeroBucketSuppression(t *testing.T) {
	// Customer keeps a nonzero net, but the 31-60 bucket nets to zero;
	// its drill-down must not show the offsetting pair. The debit note
	// ID avoids the P/C prefix so the negative item ages normally.
	items := []OpenItem{
		item("A100", "IN1", 200, 10),
		item("A100", "IN2", 80, 45),
		item("A100", "NM2", -80, 50),
	}
	require.Empty(t, Detail(items, CustomerRef{Code: "A100"}, BucketD31_60, asOf))

	rows := Detail(items, CustomerRef{Code: "A100"}, BucketD0_30, asOf)
	require.Len(t, rows, 1)
	require.Equal(t, "IN1", rows[0].ItemID)
}

func TestDetailCreditPrefixDoesNotNetAgedBucket(t *testing.T) {
	// The negative C-prefixed memo is forced to current, so it cannot
	// offset the aged invoice: the 31-60 drill-down keeps its row and
	// the current drill-down shows the memo.
	items := []OpenItem{
		item("A100", "IN1", 200, 10),
		item("A100", "IN2", 80, 45),
		item("A100", "CN2", -80, 50),
	}
	aged := Detail(items, CustomerRef{Code: "A100"}, BucketD31_60, asOf)
	require.Len(t, aged, 1)
	require.Equal(t, "IN2", aged[0].ItemID)

	current := Detail(items, CustomerRef{Code: "A100"}, BucketCurrent, asOf)
	require.Len(t, current, 1)
	require.Equal(t, "CN2", current[0].ItemID)
}

func TestDetailOrdering(t *testing.T) {
	items := []OpenItem{
		item("A100", "IN3", 10, 25),
		item("A100", "IN1", 10, 5),
		item("A100", "IN2", 10, 25),
	}
	rows := Detail(items, CustomerRef{Code: "A100"}, BucketD0_30, asOf)
	require.Len(t, rows, 3)
	// Most recently due first, ties broken by item ID.
	require.Equal(t, "IN1", rows[0].ItemID)
	require.Equal(t, "IN2", rows[1].ItemID)
	require.Equal(t, "IN3", rows[2].ItemID)
}

func TestDetailForBucketAppliesTwoLevelNetting(t *testing.T) {
	items := []OpenItem{
		item("A100", "IN1", 100, 10),
		item("A100", "NM1", -100, 12), // customer A nets to zero
		item("B100", "IN2", 60, 10),
		item("B100", "NM2", -60, 11), // bucket nets to zero, total does not
		item("B100", "IN3", 40, 45),
		item("C100", "IN4", 90, 10),
	}
	rows := DetailForBucket(items, BucketD0_30, asOf)
	require.Len(t, rows, 1)
	require.Equal(t, "C100", rows[0].CustomerCode)

	// B100 survives the customer-level rule in its nonzero bucket.
	rows = DetailForBucket(items, BucketD31_60, asOf)
	require.Len(t, rows, 1)
	require.Equal(t, "IN3", rows[0].ItemID)
}

func TestDetailForBucketOrdering(t *testing.T) {
	items := []OpenItem{
		item("B100", "IN2", 20, 5),
		item("A100", "IN1", 10, 5),
		item("A100", "IN0", 10, 2),
	}
	rows := DetailForBucket(items, BucketD0_30, asOf)
	require.Len(t, rows, 3)
	require.Equal(t, "IN0", rows[0].ItemID) // customer A, most recent due date
	require.Equal(t, "IN1", rows[1].ItemID)
	require.Equal(t, "IN2", rows[2].ItemID)
}

func TestCreditPrefixOverrideInSummary(t *testing.T) {
	items := []OpenItem{
		item("A100", "P1001", -200, 120),
		item("A100", "IN1", 350, 120),
	}
	rows := Summarize(items, asOf)
	require.Len(t, rows, 1)
	require.InDelta(t, -200, rows[0].Current, 1e-9)
	require.InDelta(t, 350, rows[0].D90Plus, 1e-9)
	require.InDelta(t, 150, rows[0].Total, 1e-9)
}

// Every bucket cell in the summary must equal the sum of its drill-down
// rows, for both the per-customer and whole-bucket views.
func TestSummaryDetailReconciliation(t *testing.T) {
	items := []OpenItem{
		item("A100", "IN1", 500.125, 10),
		item("A100", "IN2", -120.250, 40),
		item("A100", "P9", -30.500, 200),
		item("B100", "IN3", 75.333, 65),
		item("B100", "IN4", 44.667, 95),
		item("B100", "NM4", -44.667, 96),
		item("C100", "IN5", 10, 0),
		item("C100", "NM5", -10, 0), // net-zero customer
		item("D100", "IN6", 81.005, -15),
	}

	rows := Summarize(items, asOf)
	for _, row := range rows {
		var rowTotal float64
		for _, b := range AllBuckets {
			detail := Detail(items, CustomerRef{Code: row.CustomerCode}, b, asOf)
			var sum float64
			for _, d := range detail {
				sum += d.Amount
			}
			cell := row.BucketTotal(b)
			if math.Abs(round3(cell)) <= epsilon {
				require.Empty(t, detail, "customer %s bucket %s", row.CustomerCode, b)
			} else {
				require.InDelta(t, round3(cell), round3(sum), epsilon, "customer %s bucket %s", row.CustomerCode, b)
			}
			rowTotal += cell
		}
		require.InDelta(t, round3(row.Total), round3(rowTotal), epsilon)
	}

	// Whole-bucket view reconciles against the summary column sums.
	for _, b := range AllBuckets {
		var column float64
		for _, row := range rows {
			column += row.BucketTotal(b)
		}
		var sum float64
		for _, d := range DetailForBucket(items, b, asOf) {
			sum += d.Amount
		}
		require.InDelta(t, round3(column), round3(sum), epsilon, "bucket %s", b)
	}
}
