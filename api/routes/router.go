package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turboost/turboost-backend/api/controllers"
	"github.com/turboost/turboost-backend/api/middleware"
	"github.com/turboost/turboost-backend/internal/address"
	authsvc "github.com/turboost/turboost-backend/internal/auth"
	cartsvc "github.com/turboost/turboost-backend/internal/cart"
	"github.com/turboost/turboost-backend/internal/catalog"
	checkoutsvc "github.com/turboost/turboost-backend/internal/checkout"
	"github.com/turboost/turboost-backend/internal/media"
	productsvc "github.com/turboost/turboost-backend/internal/products"
	settingssvc "github.com/turboost/turboost-backend/internal/settings"
	shippingsvc "github.com/turboost/turboost-backend/internal/shipping"
	"github.com/turboost/turboost-backend/pkg/config"
	"github.com/turboost/turboost-backend/pkg/db"
	"github.com/turboost/turboost-backend/pkg/logger"
	"github.com/turboost/turboost-backend/pkg/redis"
	"github.com/turboost/turboost-backend/pkg/session"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	Registry        *prometheus.Registry
	SessionVerifier session.AccessSessionChecker

	CatalogIndex    *catalog.Index
	CartManager     *cartsvc.Manager
	ShippingManager *shippingsvc.Manager
	Orchestrator    *checkoutsvc.Orchestrator

	AddressService  address.Service
	SettingsService settingssvc.Service
	ProductService  productsvc.Service
	AuthService     authsvc.Service
	MediaService    *media.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.StorefrontSession(logg))

			r.Get("/products", controllers.CatalogList(deps.CatalogIndex, logg))
			r.Get("/products/{id}", controllers.CatalogGet(deps.CatalogIndex, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartManager, deps.CatalogIndex, logg))
				r.Delete("/", controllers.CartClear(deps.CartManager, deps.CatalogIndex, logg))
				r.Post("/items", controllers.CartAdd(deps.CartManager, deps.CatalogIndex, logg))
				r.Put("/items/{productId}", controllers.CartSetQuantity(deps.CartManager, deps.CatalogIndex, logg))
				r.Delete("/items/{productId}", controllers.CartRemove(deps.CartManager, deps.CatalogIndex, logg))
			})

			r.Route("/shipping", func(r chi.Router) {
				r.Post("/postal-code", controllers.ShippingSetPostalCode(deps.ShippingManager, deps.CartManager, logg))
				r.Get("/options", controllers.ShippingOptions(deps.ShippingManager, logg))
				r.Post("/select", controllers.ShippingSelect(deps.ShippingManager, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Orchestrator, deps.CartManager, deps.ShippingManager, logg))
		})

		r.Get("/address/{cep}", controllers.AddressLookup(deps.AddressService, logg))
		r.Get("/settings", controllers.SettingsGet(deps.SettingsService, logg))
	})

	r.Route("/api/v1/admin/auth", func(r chi.Router) {
		r.Get("/status", controllers.AuthStatus(deps.AuthService, logg))
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionVerifier, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.ProductService, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.ProductService, deps.CatalogIndex, logg))
			r.Patch("/{id}", controllers.AdminUpdateProduct(deps.ProductService, deps.CatalogIndex, logg))
			r.Delete("/{id}", controllers.AdminDeleteProduct(deps.ProductService, deps.CatalogIndex, logg))
		})

		if deps.MediaService != nil {
			r.Post("/media", controllers.AdminUploadMedia(deps.MediaService, cfg.GCS.MaxUploadBytes, logg))
		}

		r.Patch("/settings", controllers.SettingsUpdate(deps.SettingsService, logg))
	})

	return r
}
