package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/msohailkhan/dukaan/internal/order"
)

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStatePay
)

// statusFilters cycles through with the 's' key; nil means all.
var statusFilters = []*order.Status{
	nil,
	new(order.StatusPending),
	new(order.StatusPartiallyPaid),
	new(order.StatusFullyPaid),
	new(order.StatusCancelled),
}

type OrdersModel struct {
	CommonModel
	orderSvc *order.Service

	state  ordersState
	table  table.Model
	orders []*order.Order
	form   *huh.Form

	statusFilterIdx int
	loading         bool
	err             error
	status          string

	// Form bindings
	formAmount string
	formMethod order.Method
	formNotes  string
}

func NewOrdersModel(orderSvc *order.Service) OrdersModel {
	columns := []table.Column{
		{Title: "Invoice", Width: 14},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 15},
		{Title: "Total", Width: 12},
		{Title: "Paid", Width: 12},
		{Title: "Due", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return OrdersModel{
		orderSvc: orderSvc,
		table:    t,
	}
}

func (m OrdersModel) Title() string { return "Orders" }

func (m OrdersModel) ShortHelp() string {
	if m.state == ordersStatePay {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: add payment | c: cancel order | s: status filter | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadOrdersCmd()
}

type loadOrdersMsg struct {
	orders []*order.Order
	err    error
}

func (m OrdersModel) loadOrdersCmd() tea.Cmd {
	filter := order.ListFilter{Status: statusFilters[m.statusFilterIdx]}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		orders, err := m.orderSvc.List(ctx, filter)

		return loadOrdersMsg{orders: orders, err: err}
	}
}

type orderActionMsg struct {
	err error
}

func (m OrdersModel) payCmd(o *order.Order) tea.Cmd {
	amountStr, method, notes := m.formAmount, m.formMethod, m.formNotes

	return func() tea.Msg {
		amount, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil {
			return orderActionMsg{err: fmt.Errorf("amount must be a whole number of cents: %w", err)}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.orderSvc.AddPayment(ctx, o.ID, amount, method, notes)

		return orderActionMsg{err: err}
	}
}

func (m OrdersModel) cancelCmd(o *order.Order) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.orderSvc.Cancel(ctx, o.ID)

		return orderActionMsg{err: err}
	}
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOrdersMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.orders = msg.orders
		m.err = nil
		m.refreshTable()

		return m, nil

	case orderActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = "Saved"
		}

		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadOrdersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ordersStateBrowse:
		return m.updateBrowse(msg)
	case ordersStatePay:
		return m.updatePay(msg)
	}

	return m, nil
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		return m, m.loadOrdersCmd()
	case "s":
		m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
		return m, m.loadOrdersCmd()
	case "c":
		if o := m.selectedOrder(); o != nil {
			return m, m.cancelCmd(o)
		}
	case "p":
		o := m.selectedOrder()
		if o == nil {
			return m, nil
		}

		if o.Status == order.StatusFullyPaid || o.Status == order.StatusCancelled {
			m.status = "Order is closed; no more payments"
			return m, nil
		}

		m.state = ordersStatePay
		m.formAmount = ""
		m.formMethod = order.MethodCash
		m.formNotes = ""
		m.form = m.newPayForm(o)
		m.table.Blur()

		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OrdersModel) newPayForm(o *order.Order) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Amount in cents (due %s)", FormatAmount(o.Outstanding))).
				Value(&m.formAmount),
			huh.NewSelect[order.Method]().
				Title("Method").
				Options(
					huh.NewOption("Cash", order.MethodCash),
					huh.NewOption("Card", order.MethodCard),
					huh.NewOption("Online Payment", order.MethodOnline),
					huh.NewOption("Other", order.MethodOther),
				).
				Value(&m.formMethod),
			huh.NewInput().
				Title("Notes").
				Value(&m.formNotes),
		),
	)
}

func (m OrdersModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if o := m.selectedOrder(); o != nil {
			return m, m.payCmd(o)
		}

		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, cmd
}

func (m *OrdersModel) refreshTable() {
	rows := make([]table.Row, len(m.orders))
	for i, o := range m.orders {
		rows[i] = table.Row{
			o.InvoiceID,
			FormatDate(o.CreatedAt),
			string(o.Status),
			FormatAmount(o.TotalPrice),
			FormatAmount(o.PaidAmount),
			FormatAmount(o.Outstanding),
		}
	}

	m.table.SetRows(rows)
}

func (m OrdersModel) selectedOrder() *order.Order {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return nil
	}

	return m.orders[idx]
}

func (m OrdersModel) View() string {
	header := m.Title()
	if f := statusFilters[m.statusFilterIdx]; f != nil {
		header += fmt.Sprintf(" (%s)", *f)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\nError: %v\n\nEsc: back", header, m.err)
	}

	if m.state == ordersStatePay && m.form != nil {
		return header + "\n\n" + m.form.View()
	}

	out := header + "\n\n" + m.table.View() + "\n\n" + m.ShortHelp()
	if m.status != "" {
		out += "\n" + m.status
	}

	return out
}
