package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/lithic-dashboard/internal/handlers"
	"github.com/GregMSThompson/lithic-dashboard/internal/middleware"
)

type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSMiddleware(opts.AllowedOrigins).CORS)

	th := handlers.NewTransactionsHandlers(deps)
	r.Get("/healthz", th.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRateLimitMiddleware(opts.RateLimitRPS).RateLimit)
		r.Mount("/transactions", th.TransactionRoutes())
		r.Mount("/groups", th.GroupRoutes())
		r.Mount("/records", th.RecordRoutes())
	})
	return r
}
