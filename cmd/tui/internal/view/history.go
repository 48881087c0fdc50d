package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msohailkhan/dukaan/internal/history"
)

type HistoryModel struct {
	CommonModel
	historySvc *history.Service

	table   table.Model
	years   []int
	yearIdx int
	year    *history.Year

	loading bool
	err     error
}

func NewHistoryModel(historySvc *history.Service) HistoryModel {
	columns := []table.Column{
		{Title: "Month", Width: 8},
		{Title: "Day", Width: 6},
		{Title: "Orders", Width: 10},
		{Title: "Profit", Width: 14},
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

	return HistoryModel{
		historySvc: historySvc,
		table:      t,
	}
}

func (m HistoryModel) Title() string { return "Business History" }

func (m HistoryModel) ShortHelp() string {
	return "Esc: back | left/right: switch year | r: refresh"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.loadYearsCmd()
}

type loadYearsMsg struct {
	years []int
	err   error
}

func (m HistoryModel) loadYearsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		years, err := m.historySvc.ListYears(ctx)

		return loadYearsMsg{years: years, err: err}
	}
}

type loadYearMsg struct {
	year *history.Year
	err  error
}

func (m HistoryModel) loadYearCmd(year int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		y, err := m.historySvc.GetYear(ctx, year)

		return loadYearMsg{year: y, err: err}
	}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadYearsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.years = msg.years
		m.yearIdx = 0
		m.err = nil

		if len(m.years) == 0 {
			m.year = nil
			return m, nil
		}

		return m, m.loadYearCmd(m.years[m.yearIdx])

	case loadYearMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.year = msg.year
		m.err = nil
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadYearsCmd()
		case "left":
			if m.yearIdx+1 < len(m.years) {
				m.yearIdx++
				return m, m.loadYearCmd(m.years[m.yearIdx])
			}
		case "right":
			if m.yearIdx > 0 {
				m.yearIdx--
				return m, m.loadYearCmd(m.years[m.yearIdx])
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *HistoryModel) refreshTable() {
	if m.year == nil {
		m.table.SetRows(nil)
		return
	}

	var rows []table.Row

	for _, month := range m.year.Months {
		for _, d := range month.Days {
			rows = append(rows, table.Row{
				strconv.Itoa(month.Month),
				strconv.Itoa(d.Day),
				strconv.FormatInt(d.TotalOrders, 10),
				FormatAmount(d.TotalProfit),
			})
		}
	}

	m.table.SetRows(rows)
}

func (m HistoryModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("%s\n\nError: %v\n\nEsc: back", m.Title(), m.err)
	}

	if m.year == nil {
		return m.Title() + "\n\nNo history recorded yet.\n\nEsc: back"
	}

	header := fmt.Sprintf("%s %d | %d orders | profit %s",
		m.Title(), m.year.Year, m.year.TotalOrders, FormatAmount(m.year.TotalProfit))

	return header + "\n\n" + m.table.View() + "\n\n" + m.ShortHelp()
}
