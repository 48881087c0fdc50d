package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/msohailkhan/dukaan/internal/encoding"
	"github.com/msohailkhan/dukaan/internal/order"
)

// POSParser reads CSV exports of the legacy point-of-sale system and turns
// each row into an order draft. The export generation (register or daybook)
// is auto-detected from the header row.
type POSParser struct{}

func NewPOSParser() *POSParser {
	return &POSParser{}
}

func (p *POSParser) Parse(r io.Reader) ([]Draft, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	prof, cols, headerIdx := detectProfile(rows)
	if prof == nil {
		return nil, fmt.Errorf("no matching export format: expected register or daybook columns")
	}

	return parseRows(prof, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts one draft per data row. Rows without a parseable date
// (footers, blank separators) are skipped; rows with an invoice but broken
// numbers fail the whole import so a half-loaded file is never committed.
func parseRows(p *profile, cols colIndex, rows [][]string, headerRowNum int) ([]Draft, error) {
	var drafts []Draft

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, past the header

		date, ok := parseDate(row, cols, p.dateCol)
		if !ok {
			continue
		}

		invoice := cellValue(row, cols, p.invoiceCol)
		if invoice == "" {
			return nil, fmt.Errorf("row %d: missing invoice number", rowNum)
		}

		price, err := parseAmount(cellValue(row, cols, p.priceCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad amount: %w", rowNum, err)
		}

		qty := int64(1)
		if p.qtyCol != "" {
			qty, err = parseQuantity(cellValue(row, cols, p.qtyCol))
			if err != nil {
				return nil, fmt.Errorf("row %d: bad quantity: %w", rowNum, err)
			}
		}

		var discount int64
		if p.discCol != "" {
			if s := cellValue(row, cols, p.discCol); s != "" {
				discount, err = parseAmount(s)
				if err != nil {
					return nil, fmt.Errorf("row %d: bad discount: %w", rowNum, err)
				}
			}
		}

		var paid int64
		if s := cellValue(row, cols, p.paidCol); s != "" {
			paid, err = parseAmount(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad paid amount: %w", rowNum, err)
			}
		}

		itemName := cellValue(row, cols, p.itemCol)
		if itemName == "" {
			itemName = "Imported sale"
		}

		params := order.CreateParams{
			InvoiceID: invoice,
			Items: []order.ItemParams{{
				Name:      itemName,
				Quantity:  qty,
				UnitPrice: &price,
				Discount:  discount,
			}},
			CreatedAt: &date,
		}

		if name := cellValue(row, cols, p.custCol); name != "" {
			params.WalkIn = &order.WalkIn{
				Name:  name,
				Phone: cellValue(row, cols, p.phoneCol),
			}
		}

		drafts = append(drafts, Draft{Order: params, Paid: paid})
	}

	return drafts, nil
}

func parseDate(row []string, cols colIndex, col string) (time.Time, bool) {
	s := cellValue(row, cols, col)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"02/01/2006", "02-01-2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseQuantity(s string) (int64, error) {
	cents, err := parseAmount(s)
	if err != nil {
		return 0, err
	}

	// Quantities come through the same numeric formatter as amounts.
	qty := cents / 100
	if qty < 1 {
		return 0, fmt.Errorf("quantity %q is less than 1", s)
	}

	return qty, nil
}

func cellValue(row []string, cols colIndex, col string) string {
	idx, ok := cols[col]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
