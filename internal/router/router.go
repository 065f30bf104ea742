package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/somramnani/hibachi-orders/internal/config"
	"github.com/somramnani/hibachi-orders/internal/handler"
	"github.com/somramnani/hibachi-orders/internal/menu"
	"github.com/somramnani/hibachi-orders/internal/metrics"
	mw "github.com/somramnani/hibachi-orders/internal/middleware"
	"github.com/somramnani/hibachi-orders/internal/ws"
)

// maxBodyBytes bounds order submissions.
const maxBodyBytes = 64 << 10

// Deps are the long-lived components the routes are served from.
type Deps struct {
	Orders  handler.OrderServicer
	Catalog *menu.Catalog
	Hub     *ws.Hub // nil disables /ws/orders
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", d.Metrics.Handler())

	// Organizer live feed
	if d.Hub != nil {
		r.Get("/ws/orders", ws.ServeWS(d.Hub, cfg.AllowedOrigins))
	}

	orderHandler := handler.NewOrderHandler(d.Orders, d.Catalog, d.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.LimitBody(maxBodyBytes))
		orderHandler.RegisterRoutes(r)
	})

	d.Logger.Debug().Msg("router initialized")
	return r
}
