package importer

import (
	"io"

	"github.com/msohailkhan/dukaan/internal/order"
)

type Format string

const (
	// FormatPOS is the CSV export of the legacy point-of-sale system.
	FormatPOS Format = "pos"
)

// Draft is one order parsed out of a legacy export, plus the amount the old
// system had already recorded as received for it.
type Draft struct {
	Order order.CreateParams
	Paid  int64
}

type Parser interface {
	Parse(r io.Reader) ([]Draft, error)
}
