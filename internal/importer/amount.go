package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount converts an exported amount string into cents. The legacy
// system wrote European-style numbers: "1.234,56" -> 123456, "10,00" -> 1000.
// Plain values without separators ("1234") also appear in older files.
func parseAmount(s string) (int64, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
