package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSageDate(t *testing.T) {
	got, err := ParseSageDate(20260815)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestParseSageDateRejectsMalformedValues(t *testing.T) {
	for _, raw := range []int64{0, -1, 99, 20261301, 20260234, 20260230, 18991231} {
		_, err := ParseSageDate(raw)
		require.Error(t, err, "raw %d", raw)
	}
}

func TestPaidStatusMapping(t *testing.T) {
	require.Equal(t, "unknown", string(paidStatus("")))
	require.Equal(t, "unknown", string(paidStatus("  ")))
	require.Equal(t, "unpaid", string(paidStatus("0")))
	require.Equal(t, "paid", string(paidStatus("1")))
}
