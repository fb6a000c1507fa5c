package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/sdk/client"

	"github.com/avdonin/orderhub-backend/internal/config"
	"github.com/avdonin/orderhub-backend/internal/events"
	"github.com/avdonin/orderhub-backend/internal/modules/auth"
	"github.com/avdonin/orderhub-backend/internal/modules/basket"
	"github.com/avdonin/orderhub-backend/internal/modules/catalog"
	"github.com/avdonin/orderhub-backend/internal/modules/order"
	"github.com/avdonin/orderhub-backend/internal/modules/partner"
	"github.com/avdonin/orderhub-backend/internal/modules/user"
	"github.com/avdonin/orderhub-backend/internal/notify"
	"github.com/avdonin/orderhub-backend/internal/observability/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using process environment")
	}
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		slog.Error("ping database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	tc, err := client.Dial(client.Options{HostPort: cfg.TemporalHost})
	if err != nil {
		slog.Error("dial temporal", "error", err)
		os.Exit(1)
	}
	defer tc.Close()

	metrics.MustRegister()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(metrics.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	// ── Events & notifications ──────────────────────────────
	bus := events.NewBus()
	notify.NewEnqueuer(tc, cfg.NotifyTaskQueue).Subscribe(bus)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	tokenRepo := user.NewPostgresTokenRepository(db)
	contactRepo := user.NewPostgresContactRepository(db)
	userService := user.NewService(userRepo, tokenRepo, contactRepo, bus)

	authMiddleware := auth.NewMiddleware(tokenRepo)
	user.NewHandler(userService).RegisterRoutes(router, authMiddleware.RequireAuth)

	authService := auth.NewService(userRepo, tokenRepo)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog ─────────────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router, authMiddleware.RequireAuth)

	// ── Basket & orders ─────────────────────────────────────
	basketRepo := basket.NewPostgresRepository(db)
	basketService := basket.NewService(basketRepo)
	basket.NewHandler(basketService).RegisterRoutes(router, authMiddleware.RequireAuth)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, contactRepo, bus)
	order.NewHandler(orderService).RegisterRoutes(router, authMiddleware.RequireAuth)

	// ── Partner ─────────────────────────────────────────────
	partnerRepo := partner.NewPostgresRepository(db)
	fetcher := partner.NewHTTPFetcher(cfg.PricebookTimeout)
	partnerService := partner.NewService(fetcher, partnerRepo, orderService)
	partner.NewHandler(partnerService).RegisterRoutes(router,
		authMiddleware.RequireAuth, authMiddleware.RequirePartner)

	// ── Start server ────────────────────────────────────────
	slog.Info("api server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
