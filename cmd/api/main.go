package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/msohailkhan/dukaan/internal/catalog"
	catalogStore "github.com/msohailkhan/dukaan/internal/catalog/store"
	"github.com/msohailkhan/dukaan/internal/config"
	"github.com/msohailkhan/dukaan/internal/customer"
	customerStore "github.com/msohailkhan/dukaan/internal/customer/store"
	"github.com/msohailkhan/dukaan/internal/database"
	"github.com/msohailkhan/dukaan/internal/history"
	historyStore "github.com/msohailkhan/dukaan/internal/history/store"
	dukaanHttp "github.com/msohailkhan/dukaan/internal/http"
	catalogHandler "github.com/msohailkhan/dukaan/internal/http/catalog"
	customerHandler "github.com/msohailkhan/dukaan/internal/http/customer"
	historyHandler "github.com/msohailkhan/dukaan/internal/http/history"
	importHandler "github.com/msohailkhan/dukaan/internal/http/importcsv"
	orderHandler "github.com/msohailkhan/dukaan/internal/http/order"
	"github.com/msohailkhan/dukaan/internal/importer"
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

func main() {
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
	defer db.Close()

	var (
		historyService  = history.NewService(historyStore.New(db))
		recorder        = history.NewRecorder(historyService, slog.Default())
		catalogService  = catalog.NewService(catalogStore.New(db))
		orderService    = order.NewService(orderStore.New(db), catalogSource{svc: catalogService}, recorder)
		customerService = customer.NewService(customerStore.New(db))
		importService   = importer.NewService()
	)

	defer recorder.Wait()

	var (
		ordersH    = orderHandler.NewHandler(orderService)
		customersH = customerHandler.NewHandler(customerService, orderService)
		itemsH     = catalogHandler.NewHandler(catalogService)
		historyH   = historyHandler.NewHandler(historyService)
		importH    = importHandler.NewHandler(importService, orderService)
	)

	router := dukaanHttp.New(dukaanHttp.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthSecret:     cfg.Auth.Secret,
	}, ordersH, customersH, itemsH, historyH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
