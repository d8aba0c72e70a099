package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"poscan/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first so Excel on Windows
// detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the record list as CSV to w, one row per record.
func WriteCSV(w io.Writer, records []domain.PurchaseOrderRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range records {
		if err := cw.Write(recordRow(&records[i])); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
