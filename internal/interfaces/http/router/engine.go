package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// multipartOverhead is added to the upload body limit for boundaries and
// form fields
const multipartOverhead = 1 << 20

// Handlers groups every HTTP handler the engine mounts
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Users    *handler.UserHandler
	Messages *handler.MessageHandler
	Cart     *handler.CartHandler
	Upload   *handler.UploadHandler
	Stats    *handler.StatsHandler
}

// Deps is everything New needs to build the engine
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Handlers Handlers
	Auth     middleware.AuthConfig
	// Metrics may be nil, which disables /metrics and HTTP instrumentation
	Metrics *telemetry.Metrics
	// APILimiter and AuthLimiter may be nil when rate limiting is disabled
	APILimiter  *middleware.RateLimiter
	AuthLimiter *middleware.RateLimiter
}

// New builds the gin engine with the full middleware chain and all routes
func New(d Deps) *gin.Engine {
	cfg := d.Config
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			d.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(d.Logger),
		logger.GinMiddleware(d.Logger),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
	)
	if d.Metrics != nil {
		engine.Use(middleware.Metrics(d.Metrics))
	}
	engine.Use(
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
		middleware.SecureHeaders(cfg.App.Env == "production"),
		middleware.CORS(middleware.CORSFromConfig(cfg.HTTP)),
		middleware.BodyLimit(bodyLimits(cfg)),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Failure(dto.CodeRouteNotFound, "Route not found"))
	})

	engine.GET("/health", d.Handlers.System.Health)
	engine.GET("/ready", d.Handlers.System.Ready)
	if d.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	engine.GET("/swagger/*any", middleware.SwaggerGuard(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	if cfg.Storage.Driver == "local" && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		engine.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	var apiMiddleware []gin.HandlerFunc
	if d.APILimiter != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(d.APILimiter, middleware.ClientIPKey))
	}
	r := NewRouter(engine, WithMiddleware(apiMiddleware...))
	for _, group := range apiGroups(d) {
		r.Register(group)
	}
	r.Setup()

	return engine
}

func bodyLimits(cfg *config.Config) middleware.BodyLimitConfig {
	limits := middleware.BodyLimitConfig{Default: cfg.HTTP.MaxBodySize}
	if cfg.Storage.MaxFileSize > 0 && cfg.Storage.MaxFiles > 0 {
		limits.Overrides = map[string]int64{
			"/api/upload": cfg.Storage.MaxFileSize*int64(cfg.Storage.MaxFiles) + multipartOverhead,
		}
	}
	return limits
}

func apiGroups(d Deps) []*DomainGroup {
	h := d.Handlers
	authenticated := middleware.Authenticate(d.Auth)
	optional := middleware.OptionalAuth(d.Auth)
	adminOnly := middleware.AdminOnly()

	var credentialLimit []gin.HandlerFunc
	if d.AuthLimiter != nil {
		credentialLimit = append(credentialLimit, middleware.RateLimit(d.AuthLimiter, middleware.ClientIPKey))
	}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.Group("credentials", "").Use(credentialLimit...).
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh)
	authRoutes.Group("session", "").Use(authenticated).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/me", h.Auth.UpdateMe).
		PUT("/me/password", h.Auth.ChangePassword)

	productRoutes := NewDomainGroup("products", "/products")
	productRoutes.Group("browse", "").Use(optional).
		GET("", h.Products.List).
		GET("/categories", h.Products.Categories).
		GET("/:id", h.Products.Get).
		GET("/:id/reviews", h.Products.ListReviews)
	productRoutes.Group("reviews", "").Use(authenticated).
		POST("/:id/reviews", h.Products.AddReview)
	productRoutes.Group("manage", "").Use(authenticated, adminOnly).
		POST("", h.Products.Create).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Delete)

	orderRoutes := NewDomainGroup("orders", "/orders").Use(authenticated).
		POST("", h.Orders.Place).
		GET("/my", h.Orders.ListMine).
		GET("/:id", h.Orders.Get).
		POST("/:id/cancel", h.Orders.Cancel)
	orderRoutes.Group("admin", "").Use(adminOnly).
		GET("", h.Orders.ListAll).
		PATCH("/:id/status", h.Orders.UpdateStatus).
		PATCH("/:id/payment", h.Orders.UpdatePayment).
		POST("/:id/notes", h.Orders.AddNote).
		POST("/:id/delivery-files", h.Orders.AddDeliveryFiles)

	userRoutes := NewDomainGroup("users", "/users").Use(authenticated, adminOnly).
		GET("", h.Users.List).
		GET("/:id", h.Users.Get).
		PUT("/:id", h.Users.Update).
		PATCH("/:id/verification", h.Users.SetVerification).
		DELETE("/:id", h.Users.Delete)

	messageRoutes := NewDomainGroup("messages", "/messages")
	messageRoutes.Group("contact", "").Use(optional).
		POST("", h.Messages.Submit)
	messageRoutes.Group("mine", "/my").Use(authenticated).
		GET("", h.Messages.ListMine).
		GET("/:id", h.Messages.GetMine)
	messageRoutes.Group("inbox", "").Use(authenticated, adminOnly).
		GET("", h.Messages.List).
		GET("/:id", h.Messages.Get).
		PATCH("/:id/status", h.Messages.UpdateStatus).
		POST("/:id/responses", h.Messages.AddResponse).
		DELETE("/:id", h.Messages.Delete)

	cartRoutes := NewDomainGroup("cart", "/cart").Use(authenticated).
		GET("", h.Cart.Get).
		DELETE("", h.Cart.Clear).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:productId", h.Cart.UpdateItem).
		DELETE("/items/:productId", h.Cart.RemoveItem).
		POST("/checkout", h.Cart.Checkout)

	uploadRoutes := NewDomainGroup("upload", "/upload").Use(authenticated).
		POST("/:type", h.Upload.Upload)
	uploadRoutes.Group("admin", "").Use(adminOnly).
		DELETE("", h.Upload.Delete)

	adminRoutes := NewDomainGroup("admin", "/admin").Use(authenticated, adminOnly).
		GET("/stats", h.Stats.Dashboard)

	return []*DomainGroup{
		authRoutes,
		productRoutes,
		orderRoutes,
		userRoutes,
		messageRoutes,
		cartRoutes,
		uploadRoutes,
		adminRoutes,
	}
}
