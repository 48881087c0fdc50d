package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/msohailkhan/dukaan/internal/http/auth"
	catalogHandler "github.com/msohailkhan/dukaan/internal/http/catalog"
	customerHandler "github.com/msohailkhan/dukaan/internal/http/customer"
	historyHandler "github.com/msohailkhan/dukaan/internal/http/history"
	"github.com/msohailkhan/dukaan/internal/http/importcsv"
	orderHandler "github.com/msohailkhan/dukaan/internal/http/order"
)

type Config struct {
	AllowedOrigins []string
	AuthSecret     string
}

func New(
	cfg Config,
	ordersV1 *orderHandler.Handler,
	customersV1 *customerHandler.Handler,
	itemsV1 *catalogHandler.Handler,
	historyV1 *historyHandler.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.AuthSecret))

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ordersV1.Routes(r)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			customersV1.Routes(r)
		})

		r.Route("/items", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			itemsV1.Routes(r)
		})

		r.Route("/history", historyV1.Routes)

		r.Route("/import", importV1.Routes)
	})

	return router
}
