// Package export serialises aging reports for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Arooma21/Odoo-Dashboard/internal/recv"
)

// WriteSummaryCSV emits the per-customer aging summary with a trailing
// totals row.
func WriteSummaryCSV(w io.Writer, report recv.SummaryReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Customer Code", "Customer Name", "Current", "0-30", "31-60", "61-90", "90+", "Total"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := writer.Write([]string{
			row.CustomerCode,
			row.CustomerName,
			formatFloat(row.Current),
			formatFloat(row.D0_30),
			formatFloat(row.D31_60),
			formatFloat(row.D61_90),
			formatFloat(row.D90Plus),
			formatFloat(row.Total),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{
		"", "Total",
		formatFloat(report.Totals.Current),
		formatFloat(report.Totals.D0_30),
		formatFloat(report.Totals.D31_60),
		formatFloat(report.Totals.D61_90),
		formatFloat(report.Totals.D90Plus),
		formatFloat(report.Totals.Total),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteDetailCSV emits a drill-down row set.
func WriteDetailCSV(w io.Writer, report recv.DetailReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Customer Code", "Customer Name", "Item", "Due Date", "Order", "PO", "Description", "Amount"}); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := writer.Write([]string{
			row.CustomerCode,
			row.CustomerName,
			row.ItemID,
			row.DueDate,
			row.OrderRef,
			row.PORef,
			row.Description,
			formatFloat(row.Amount),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
