package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/msohailkhan/dukaan/cmd/tui/internal/view"
	"github.com/msohailkhan/dukaan/internal/catalog"
	catalogStore "github.com/msohailkhan/dukaan/internal/catalog/store"
	"github.com/msohailkhan/dukaan/internal/config"
	"github.com/msohailkhan/dukaan/internal/customer"
	customerStore "github.com/msohailkhan/dukaan/internal/customer/store"
	"github.com/msohailkhan/dukaan/internal/database"
	"github.com/msohailkhan/dukaan/internal/history"
	historyStore "github.com/msohailkhan/dukaan/internal/history/store"
	"github.com/msohailkhan/dukaan/internal/order"
	orderStore "github.com/msohailkhan/dukaan/internal/order/store"
)

// catalogSource adapts the catalog service to the lookup contract order
// creation expects.
type catalogSource struct {
	svc *catalog.Service
}

func (c catalogSource) Lookup(ctx context.Context, id uuid.UUID) (order.CatalogItem, bool, error) {
	item, err := c.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return order.CatalogItem{}, false, nil
		}

		return order.CatalogItem{}, false, err
	}

	return order.CatalogItem{
		Name:           item.Name,
		RetailPrice:    item.RetailPrice,
		WholesalePrice: item.WholesalePrice,
	}, true, nil
}

type model struct {
	orderService    *order.Service
	customerService *customer.Service
	historyService  *history.Service

	currentView View

	ordersView    view.OrdersModel
	customersView view.CustomersModel
	historyView   view.HistoryModel
}

type View int

const (
	ViewMenu      View = 0
	ViewOrders    View = 1
	ViewCustomers View = 2
	ViewHistory   View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	historySvc := history.NewService(historyStore.New(db))
	recorder := history.NewRecorder(historySvc, slog.Default())
	catalogSvc := catalog.NewService(catalogStore.New(db))
	orderSvc := order.NewService(orderStore.New(db), catalogSource{svc: catalogSvc}, recorder)
	customerSvc := customer.NewService(customerStore.New(db))

	return model{
		orderService:    orderSvc,
		customerService: customerSvc,
		historyService:  historySvc,
		currentView:     ViewMenu,
		ordersView:      view.NewOrdersModel(orderSvc),
		customersView:   view.NewCustomersModel(customerSvc, orderSvc),
		historyView:     view.NewHistoryModel(historySvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.orderService)

				return m, m.ordersView.Init()
			case "2":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.customerService, m.orderService)

				return m, m.customersView.Init()
			case "3":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.historyService)

				return m, m.historyView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Dukaan TUI\n\n" +
				"1. Orders\n" +
				"2. Customers\n" +
				"3. Business History\n\n" +
				"q. Quit",
		)
	case ViewOrders:
		return m.ordersView.View()
	case ViewCustomers:
		return m.customersView.View()
	case ViewHistory:
		return m.historyView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
