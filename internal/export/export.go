package export

import (
	"strconv"
	"time"

	"poscan/internal/domain"
)

// columns defines the export header row, shared by the CSV and XLSX
// writers.
var columns = []string{
	"PO Number",
	"Issue Date",
	"Vendor",
	"Vendor Address",
	"Purchaser",
	"Purchaser Address",
	"Line Items",
	"Subtotal",
	"Tax",
	"Total",
	"Currency",
	"Source File",
	"Created At",
	"Updated At",
}

func recordRow(rec *domain.PurchaseOrderRecord) []string {
	return []string{
		optString(rec.PurchaseOrderNumber),
		optString(rec.IssueDate),
		rec.Vendor.Name,
		rec.Vendor.Address,
		rec.Purchaser.Name,
		rec.Purchaser.Address,
		strconv.Itoa(len(rec.Items)),
		optFloat(rec.Subtotal),
		optFloat(rec.Tax),
		formatFloat(rec.Total),
		optString(rec.Currency),
		rec.SourceFileName,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		optTime(rec.UpdatedAt),
	}
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
