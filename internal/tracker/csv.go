package tracker

import (
	"encoding/csv"
	"fmt"
	"io"

	"inkwell/pkg/types"
)

// statusReportHeader is the fixed export header for the status report.
var statusReportHeader = []string{
	"Document Title",
	"Type",
	"Recipient",
	"Email",
	"Sent Date",
	"Status",
	"Viewed Date",
	"Signed Date",
	"Time to Sign (hrs)",
}

// WriteStatusReportCSV renders report rows as plain comma-separated text with
// a header row.
func WriteStatusReportCSV(w io.Writer, rows []types.StatusReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(statusReportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		timeToSign := ""
		if row.TimeToSignHours != nil {
			timeToSign = fmt.Sprintf("%.2f", *row.TimeToSignHours)
		}

		record := []string{
			row.Document.Title,
			row.Document.DocumentType,
			row.Instance.RecipientName,
			row.Instance.RecipientEmail,
			types.DisplayDate(row.Instance.SentAt),
			string(row.Instance.Status),
			types.DisplayDate(row.Instance.ViewedAt),
			types.DisplayDate(row.Instance.SignedAt),
			timeToSign,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
