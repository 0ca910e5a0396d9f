package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apartmentHandler "github.com/ozank/kapici/internal/http/apartment"
	authHandler "github.com/ozank/kapici/internal/http/auth"
	importHandler "github.com/ozank/kapici/internal/http/importcsv"
	ledgerHandler "github.com/ozank/kapici/internal/http/ledger"
	orderHandler "github.com/ozank/kapici/internal/http/order"
)

type Deps struct {
	Auth       *authHandler.Handler
	Orders     *orderHandler.Handler
	Ledger     *ledgerHandler.Handler
	Apartments *apartmentHandler.Handler
	Import     *importHandler.Handler
	Verify     func(http.Handler) http.Handler
}

func New(deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			deps.Auth.Routes(r)
		})

		// The unit catalog is public: the order form needs it before login.
		r.Get("/blocks", deps.Apartments.Units)

		r.Group(func(r chi.Router) {
			r.Use(deps.Verify)

			r.Route("/orders", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				deps.Orders.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(authHandler.RequireStaff)

				r.Get("/apartments", deps.Apartments.List)
				r.Get("/stats", deps.Orders.Stats)

				r.Route("/debts", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					deps.Ledger.Routes(r)
				})

				r.Route("/import", deps.Import.Routes)
			})
		})
	})

	return router
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
