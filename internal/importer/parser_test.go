package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msohailkhan/dukaan/internal/importer"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestPOSParser_Register(t *testing.T) {
	csv := `Shop Manager 4.2 - Sales Export
Exported;14/03/2023

Invoice;Date;Customer;Phone;Item;Qty;Unit Price;Discount;Paid
INV-0451;12/03/2023;Akram Traders;0300-1234567;Cement bag 50kg;4;1.250,00;50,00;3.000,00
INV-0452;13/03/2023;;;Steel rod 12mm;10;980,00;;9.800,00

Total;2 invoices
`

	p := importer.NewPOSParser()
	drafts, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	first := drafts[0]
	assert.Equal(t, "INV-0451", first.Order.InvoiceID)
	require.NotNil(t, first.Order.CreatedAt)
	assert.Equal(t, date(2023, 3, 12), *first.Order.CreatedAt)
	require.NotNil(t, first.Order.WalkIn)
	assert.Equal(t, "Akram Traders", first.Order.WalkIn.Name)
	assert.Equal(t, "0300-1234567", first.Order.WalkIn.Phone)
	require.Len(t, first.Order.Items, 1)
	assert.Equal(t, "Cement bag 50kg", first.Order.Items[0].Name)
	assert.Equal(t, int64(4), first.Order.Items[0].Quantity)
	require.NotNil(t, first.Order.Items[0].UnitPrice)
	assert.Equal(t, int64(125000), *first.Order.Items[0].UnitPrice)
	assert.Equal(t, int64(5000), first.Order.Items[0].Discount)
	assert.Equal(t, int64(300000), first.Paid)

	second := drafts[1]
	assert.Equal(t, "INV-0452", second.Order.InvoiceID)
	assert.Nil(t, second.Order.WalkIn)
	assert.Equal(t, int64(10), second.Order.Items[0].Quantity)
	assert.Equal(t, int64(0), second.Order.Items[0].Discount)
	assert.Equal(t, int64(980000), second.Paid)
}

func TestPOSParser_Daybook(t *testing.T) {
	csv := `Bill No;Bill Date;Party;Description;Amount;Received
0451;12-03-2019;Akram Traders;Misc hardware;1.500,00;1.500,00
0452;12-03-2019;;Misc hardware;750,00;0,00
`

	p := importer.NewPOSParser()
	drafts, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	first := drafts[0]
	assert.Equal(t, "0451", first.Order.InvoiceID)
	assert.Equal(t, date(2019, 3, 12), *first.Order.CreatedAt)
	require.Len(t, first.Order.Items, 1)
	assert.Equal(t, int64(1), first.Order.Items[0].Quantity)
	assert.Equal(t, int64(150000), *first.Order.Items[0].UnitPrice)
	assert.Equal(t, int64(150000), first.Paid)

	assert.Nil(t, drafts[1].Order.WalkIn)
	assert.Equal(t, int64(0), drafts[1].Paid)
}

func TestPOSParser_UnknownFormat(t *testing.T) {
	csv := `foo;bar;baz
1;2;3
`

	p := importer.NewPOSParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestPOSParser_BadAmountFailsImport(t *testing.T) {
	csv := `Invoice;Date;Customer;Phone;Item;Qty;Unit Price;Discount;Paid
INV-0451;12/03/2023;;;Cement bag 50kg;4;not-a-number;;0,00
`

	p := importer.NewPOSParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestService_UnknownFormat(t *testing.T) {
	svc := importer.NewService()

	_, err := svc.Parse(importer.Format("excel"), strings.NewReader(""))
	assert.Error(t, err)
}
