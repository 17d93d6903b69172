package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
)

func TestWriteSummaryCSV(t *testing.T) {
	report := recv.SummaryReport{
		Rows: []recv.SummaryRow{
			{CustomerCode: "A100", CustomerName: "Acme, Inc", Current: 10.5, D0_30: 20, Total: 30.5},
		},
		Totals: recv.BucketTotals{Current: 10.5, D0_30: 20, Total: 30.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Customer Code,Customer Name,Current,0-30,31-60,61-90,90+,Total", lines[0])
	// Names containing commas must stay quoted.
	require.Contains(t, lines[1], `"Acme, Inc"`)
	require.Contains(t, lines[2], "Total,10.5,20")
}

func TestWriteDetailCSV(t *testing.T) {
	report := recv.DetailReport{
		Rows: []recv.DetailRow{
			{CustomerCode: "A100", CustomerName: "Acme", ItemID: "IN1", DueDate: "2026-08-05", Amount: -12.345},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDetailCSV(&buf, report))

	out := buf.String()
	require.Contains(t, out, "Customer Code,Customer Name,Item,Due Date,Order,PO,Description,Amount")
	require.Contains(t, out, "A100,Acme,IN1,2026-08-05,,,,-12.345")
}
