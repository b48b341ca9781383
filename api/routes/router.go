package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agrilinkhq/agrilink-backend/api/controllers"
	"github.com/agrilinkhq/agrilink-backend/api/middleware"
	"github.com/agrilinkhq/agrilink-backend/internal/auth"
	"github.com/agrilinkhq/agrilink-backend/internal/fertilizers"
	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/internal/users"
	"github.com/agrilinkhq/agrilink-backend/pkg/config"
	"github.com/agrilinkhq/agrilink-backend/pkg/db"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	"github.com/agrilinkhq/agrilink-backend/pkg/logger"
	"github.com/agrilinkhq/agrilink-backend/pkg/metrics"
	"github.com/agrilinkhq/agrilink-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	RedisClient    *redis.Client
	AuthService    auth.Service
	OrdersService  orders.Service
	CatalogService fertilizers.Service
	UsersRepo      *users.Repository
	Registry       *prometheus.Registry
	RequestMetrics *metrics.RequestMetrics
}

// NewRouter assembles the full route tree.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.RequestMetrics),
		middleware.CORS(),
	)

	// A nil *redis.Client must not reach the Pinger interface, or the nil
	// check inside HealthReady sees a non-nil interface holding a nil pointer.
	var redisPinger redis.Pinger
	if p.RedisClient != nil {
		redisPinger = p.RedisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, redisPinger))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Registry))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register-farmer", controllers.RegisterFarmer(p.AuthService, logg))
		r.Post("/verify-otp", controllers.VerifyOTP(p.AuthService, logg))
		r.Post("/request-otp", controllers.RequestOTP(p.AuthService, logg))
		r.Post("/admin-login", controllers.AdminLogin(p.AuthService, logg))
	})

	r.Route("/farmer", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleFarmer), logg))
		r.Use(middleware.Idempotency(p.RedisClient, logg))

		r.Post("/submit-order", controllers.SubmitOrder(p.OrdersService, logg))
		r.Get("/my-orders", controllers.MyOrders(p.OrdersService, logg))
		r.Get("/fertilizers", controllers.FarmerFertilizers(p.CatalogService, logg))
		r.Get("/profile", controllers.FarmerProfile(p.UsersRepo, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(p.RedisClient, logg))

		r.Get("/orders", controllers.AdminOrders(p.OrdersService, logg))
		r.Post("/approve-order/{orderId}", controllers.ApproveOrder(p.OrdersService, logg))
		r.Post("/decline-order/{orderId}", controllers.DeclineOrder(p.OrdersService, logg))
		r.Get("/metrics", controllers.AdminMetrics(p.OrdersService, logg))
		r.Get("/fertilizers", controllers.AdminFertilizers(p.CatalogService, logg))
		r.Post("/fertilizers", controllers.CreateFertilizer(p.CatalogService, logg))
		r.Put("/fertilizers/{fertilizerId}", controllers.UpdateFertilizer(p.CatalogService, logg))
	})

	if cfg.Frontend.DistDir != "" {
		mountFrontend(r, cfg.Frontend.DistDir)
	}

	return r
}

// mountFrontend serves the built frontend bundle, falling back to index.html
// for client-side routes.
func mountFrontend(r chi.Router, distDir string) {
	fileServer := http.FileServer(http.Dir(distDir))
	index := filepath.Join(distDir, "index.html")

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.NotFound(w, req)
			return
		}
		path := filepath.Join(distDir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, req)
			return
		}
		if strings.HasPrefix(req.Header.Get("Accept"), "application/json") {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
}
