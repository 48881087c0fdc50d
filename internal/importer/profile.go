package importer

// profile describes the column layout of one legacy export generation. The
// old point-of-sale produced two CSV shapes over its lifetime; auto-detection
// matches headers against these instead of asking the user which one they
// have.
type profile struct {
	name string

	invoiceCol string
	dateCol    string
	custCol    string
	phoneCol   string
	itemCol    string
	qtyCol     string // empty means quantity is always 1
	priceCol   string
	discCol    string // optional per-line discount column
	paidCol    string
}

func (p profile) requiredCols() []string {
	cols := []string{p.invoiceCol, p.dateCol, p.priceCol}

	if p.qtyCol != "" {
		cols = append(cols, p.qtyCol)
	}

	return cols
}

// profiles is ordered most-specific first so the register layout is not
// mistaken for the older daybook one.
var profiles = []profile{
	{
		name:       "register",
		invoiceCol: "Invoice",
		dateCol:    "Date",
		custCol:    "Customer",
		phoneCol:   "Phone",
		itemCol:    "Item",
		qtyCol:     "Qty",
		priceCol:   "Unit Price",
		discCol:    "Discount",
		paidCol:    "Paid",
	},
	{
		name:       "daybook",
		invoiceCol: "Bill No",
		dateCol:    "Bill Date",
		custCol:    "Party",
		itemCol:    "Description",
		priceCol:   "Amount",
		paidCol:    "Received",
	},
}
