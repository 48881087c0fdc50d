package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/msohailkhan/dukaan/internal/customer"
	"github.com/msohailkhan/dukaan/internal/order"
)

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStatePay
)

type CustomersModel struct {
	CommonModel
	customerSvc *customer.Service
	orderSvc    *order.Service

	state     customersState
	table     table.Model
	customers []*customer.Customer
	form      *huh.Form

	outstandingOnly bool
	loading         bool
	err             error
	status          string

	formAmount string
	formMethod order.Method
}

func NewCustomersModel(customerSvc *customer.Service, orderSvc *order.Service) CustomersModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Phone", Width: 16},
		{Title: "Paid", Width: 12},
		{Title: "Outstanding", Width: 12},
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

	return CustomersModel{
		customerSvc: customerSvc,
		orderSvc:    orderSvc,
		table:       t,
	}
}

func (m CustomersModel) Title() string {
	if m.outstandingOnly {
		return "Customers (outstanding)"
	}

	return "Customers"
}

func (m CustomersModel) ShortHelp() string {
	if m.state == customersStatePay {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: receive payment | o: outstanding only | r: refresh"
}

func (m CustomersModel) Init() tea.Cmd {
	return m.loadCustomersCmd()
}

type loadCustomersMsg struct {
	customers []*customer.Customer
	err       error
}

func (m CustomersModel) loadCustomersCmd() tea.Cmd {
	outstandingOnly := m.outstandingOnly

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			customers []*customer.Customer
			err       error
		)

		if outstandingOnly {
			customers, err = m.customerSvc.Outstanding(ctx)
		} else {
			customers, err = m.customerSvc.List(ctx)
		}

		return loadCustomersMsg{customers: customers, err: err}
	}
}

type customerPayMsg struct {
	allocated int64
	err       error
}

func (m CustomersModel) payCmd(c *customer.Customer) tea.Cmd {
	amountStr, method := m.formAmount, m.formMethod

	return func() tea.Msg {
		amount, err := strconv.ParseInt(amountStr, 10, 64)
		if err != nil {
			return customerPayMsg{err: fmt.Errorf("amount must be a whole number of cents: %w", err)}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		allocated, err := m.orderSvc.PayCustomer(ctx, c.ID, amount, method, "")

		return customerPayMsg{allocated: allocated, err: err}
	}
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCustomersMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.customers = msg.customers
		m.err = nil
		m.refreshTable()

		return m, nil

	case customerPayMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Applied %s to outstanding orders", FormatAmount(msg.allocated))
		}

		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCustomersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case customersStateBrowse:
		return m.updateBrowse(msg)
	case customersStatePay:
		return m.updatePay(msg)
	}

	return m, nil
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return m, m.loadCustomersCmd()
	case "o":
		m.outstandingOnly = !m.outstandingOnly
		return m, m.loadCustomersCmd()
	case "p":
		c := m.selectedCustomer()
		if c == nil {
			return m, nil
		}

		if c.Outstanding == 0 {
			m.status = "Customer has nothing outstanding"
			return m, nil
		}

		m.state = customersStatePay
		m.formAmount = ""
		m.formMethod = order.MethodCash
		m.form = m.newPayForm(c)
		m.table.Blur()

		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CustomersModel) newPayForm(c *customer.Customer) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Amount in cents (outstanding %s)", FormatAmount(c.Outstanding))).
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
		),
	)
}

func (m CustomersModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if c := m.selectedCustomer(); c != nil {
			return m, m.payCmd(c)
		}

		m.state = customersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, cmd
}

func (m *CustomersModel) refreshTable() {
	rows := make([]table.Row, len(m.customers))
	for i, c := range m.customers {
		rows[i] = table.Row{
			c.Name,
			c.Phone,
			FormatAmount(c.PaidAmount),
			FormatAmount(c.Outstanding),
		}
	}

	m.table.SetRows(rows)
}

func (m CustomersModel) selectedCustomer() *customer.Customer {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.customers) {
		return nil
	}

	return m.customers[idx]
}

func (m CustomersModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("%s\n\nError: %v\n\nEsc: back", m.Title(), m.err)
	}

	if m.state == customersStatePay && m.form != nil {
		return m.Title() + "\n\n" + m.form.View()
	}

	out := m.Title() + "\n\n" + m.table.View() + "\n\n" + m.ShortHelp()
	if m.status != "" {
		out += "\n" + m.status
	}

	return out
}
