package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/villageessence/marketplace-backend/api/controllers"
	"github.com/villageessence/marketplace-backend/api/middleware"
	"github.com/villageessence/marketplace-backend/internal/auth"
	"github.com/villageessence/marketplace-backend/internal/catalog"
	checkoutsvc "github.com/villageessence/marketplace-backend/internal/checkout"
	"github.com/villageessence/marketplace-backend/internal/media"
	"github.com/villageessence/marketplace-backend/internal/orders"
	"github.com/villageessence/marketplace-backend/internal/vendors"
	"github.com/villageessence/marketplace-backend/pkg/auth/session"
	"github.com/villageessence/marketplace-backend/pkg/config"
	"github.com/villageessence/marketplace-backend/pkg/logger"
	pkgmetrics "github.com/villageessence/marketplace-backend/pkg/metrics"
	"github.com/villageessence/marketplace-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	ReadyDeps      map[string]controllers.ReadyDep
	RedisClient    *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *pkgmetrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService     auth.Service
	CatalogService  catalog.Service
	VendorsService  vendors.Service
	OrdersService   orders.Service
	CheckoutService checkoutsvc.Service
	MediaService    media.Service
	CartFactory     controllers.CartStoreFactory
}

// NewRouter wires the public, vendor, and admin surfaces onto one chi router.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyDeps))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.ListCategories(deps.CatalogService, logg))
		r.Get("/products", controllers.ListProducts(deps.CatalogService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.CatalogService, logg))
		r.Get("/vendors", controllers.ListVendors(deps.VendorsService, logg))
		r.Get("/vendors/{vendorId}", controllers.GetVendor(deps.VendorsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.CartFactory, logg))
				r.Delete("/", controllers.ClearCart(deps.CartFactory, logg))
				r.Post("/items", controllers.AddToCart(deps.CartFactory, deps.CatalogService, logg))
				r.Patch("/items/{productId}", controllers.UpdateCartItem(deps.CartFactory, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.CartFactory, logg))
			})
			r.Post("/checkout", controllers.Checkout(deps.CheckoutService, deps.CartFactory, logg))
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Use(middleware.RequireRole("vendor", logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListVendorProducts(deps.CatalogService, logg))
				r.Post("/", controllers.CreateVendorProduct(deps.CatalogService, logg))
				r.Patch("/{productId}", controllers.UpdateVendorProduct(deps.CatalogService, logg))
				r.Delete("/{productId}", controllers.DeleteVendorProduct(deps.CatalogService, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.VendorProfile(deps.VendorsService, logg))
				r.Put("/", controllers.UpdateVendorProfile(deps.VendorsService, logg))
			})
			r.Post("/password", controllers.ChangeVendorPassword(deps.VendorsService, logg))
			r.Delete("/account", controllers.DeleteVendorAccount(deps.VendorsService, logg))

			r.Route("/media", func(r chi.Router) {
				r.Post("/product-image", controllers.UploadProductImage(deps.MediaService, cfg.Media, logg))
				r.Post("/profile-image", controllers.UploadProfileImage(deps.MediaService, deps.VendorsService, cfg.Media, logg))
				r.Delete("/", controllers.RemoveMedia(deps.MediaService, logg))
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
			r.Post("/logout", controllers.Logout(deps.AuthService, cfg.JWT, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/auth/login", controllers.AdminLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.OrdersService, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(deps.OrdersService, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.OrdersService, logg))
				r.Delete("/{orderId}", controllers.AdminDeleteOrder(deps.OrdersService, logg))
			})
			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", controllers.AdminListVendors(deps.VendorsService, logg))
				r.Delete("/{vendorId}", controllers.AdminDeleteVendor(deps.VendorsService, logg))
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(deps.CatalogService, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.CatalogService, logg))
			})
		})
	})

	return r
}
