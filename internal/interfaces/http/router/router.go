package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/leaftolife/backend/internal/domain/identity"
	"github.com/leaftolife/backend/internal/infrastructure/config"
	"github.com/leaftolife/backend/internal/infrastructure/logger"
	"github.com/leaftolife/backend/internal/interfaces/http/handler"
	"github.com/leaftolife/backend/internal/interfaces/http/middleware"
)

// Handlers collects every handler the router mounts
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	Patient     *handler.PatientHandler
	Product     *handler.ProductHandler
	Supplier    *handler.SupplierHandler
	Blend       *handler.BlendHandler
	Bundle      *handler.BundleHandler
	Transaction *handler.TransactionHandler
	Tier        *handler.TierHandler
	User        *handler.UserHandler
	Admin       *handler.AdminHandler
}

// Options configures cross-cutting middleware for the router
type Options struct {
	Config           config.HTTPConfig
	Validator        middleware.TokenValidator
	Logger           *zap.Logger
	TelemetryEnabled bool
	ServiceName      string
}

// Router builds the gin engine and owns its rate limiters
type Router struct {
	engine      *gin.Engine
	apiLimiter  *middleware.RateLimiter
	authLimiter *middleware.RateLimiter
}

// Engine returns the configured gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Close stops the router's background workers
func (r *Router) Close() {
	if r.apiLimiter != nil {
		r.apiLimiter.Stop()
	}
	if r.authLimiter != nil {
		r.authLimiter.Stop()
	}
}

// New assembles the middleware chain and registers every API route
func New(h Handlers, opts Options) *Router {
	middleware.SetupValidator()

	engine := gin.New()
	r := &Router{engine: engine}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(middleware.CORSFromHTTPConfig(opts.Config)))
	if opts.Config.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.Config.MaxBodySize))
	}
	if opts.TelemetryEnabled {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Logger != nil {
		engine.Use(logger.GinMiddleware(opts.Logger))
	}
	if opts.Config.RateLimitEnabled {
		r.apiLimiter = middleware.NewRateLimiter(opts.Config.RateLimitRequests, opts.Config.RateLimitWindow)
		engine.Use(middleware.RateLimit(r.apiLimiter))
	}

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	api.GET("/health", h.System.Health)
	api.GET("/system/info", h.System.Info)

	auth := api.Group("/auth")
	if opts.Config.AuthRateLimitEnabled {
		r.authLimiter = middleware.NewRateLimiter(opts.Config.AuthRateLimitRequests, opts.Config.AuthRateLimitWindow)
		auth.Use(middleware.RateLimit(r.authLimiter))
	}
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWTAuthWithConfig(middleware.JWTConfig{
		Validator: opts.Validator,
		Logger:    opts.Logger,
	}))

	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/logout", h.Auth.Logout)
	authed.POST("/auth/password", h.User.ChangePassword)

	registerPatientRoutes(authed, h.Patient)
	registerCatalogRoutes(authed, h.Product, h.Supplier)
	registerBlendRoutes(authed, h.Blend, h.Bundle)
	registerSalesRoutes(authed, h.Transaction)
	registerMembershipRoutes(authed, h.Tier)
	registerUserRoutes(authed, h.User)
	registerAdminRoutes(authed, h.Admin)

	return r
}

func registerPatientRoutes(rg *gin.RouterGroup, h *handler.PatientHandler) {
	patients := rg.Group("/patients")
	manage := middleware.RequirePermission(identity.PermManagePatients)

	patients.GET("", h.List)
	patients.GET("/:id", h.GetByID)
	patients.GET("/code/:code", h.GetByCode)
	patients.POST("", manage, h.Register)
	patients.PUT("/:id", manage, h.Update)
	patients.PUT("/:id/clinical-notes", manage, h.UpdateClinicalNotes)
	patients.PUT("/:id/tier", manage, h.AssignTier)
	patients.DELETE("/:id/tier", manage, h.ClearTier)
	patients.POST("/:id/archive", manage, h.Archive)
	patients.POST("/:id/restore", manage, h.Restore)
}

func registerCatalogRoutes(rg *gin.RouterGroup, products *handler.ProductHandler, suppliers *handler.SupplierHandler) {
	manage := middleware.RequirePermission(identity.PermManageCatalog)

	p := rg.Group("/products")
	p.GET("", products.List)
	p.GET("/:id", products.GetByID)
	p.GET("/code/:code", products.GetByCode)
	p.POST("", manage, products.Create)
	p.PUT("/:id", manage, products.Update)
	p.POST("/:id/receive", manage, products.ReceiveStock)
	p.POST("/:id/adjust", manage, products.AdjustStock)
	p.POST("/:id/activate", manage, products.Activate)
	p.POST("/:id/deactivate", manage, products.Deactivate)
	p.POST("/:id/discontinue", manage, products.Discontinue)

	s := rg.Group("/suppliers")
	s.GET("", suppliers.List)
	s.GET("/:id", suppliers.GetByID)
	s.POST("", manage, suppliers.Create)
	s.PUT("/:id", manage, suppliers.Update)
	s.POST("/:id/activate", manage, suppliers.Activate)
	s.POST("/:id/deactivate", manage, suppliers.Deactivate)
}

func registerBlendRoutes(rg *gin.RouterGroup, blends *handler.BlendHandler, bundles *handler.BundleHandler) {
	manage := middleware.RequirePermission(identity.PermManageBlends)

	b := rg.Group("/blends")
	b.GET("", blends.List)
	b.GET("/:id", blends.GetByID)
	b.POST("", manage, blends.Create)
	b.PUT("/:id", manage, blends.Update)
	b.POST("/:id/ingredients", manage, blends.AddIngredient)
	b.PUT("/:id/ingredients/:ingredientId", manage, blends.UpdateIngredient)
	b.DELETE("/:id/ingredients/:ingredientId", manage, blends.RemoveIngredient)
	b.POST("/:id/activate", manage, blends.Activate)
	b.POST("/:id/deactivate", manage, blends.Deactivate)
	b.POST("/:id/produce", manage, blends.Produce)

	bd := rg.Group("/bundles")
	bd.GET("", bundles.List)
	bd.GET("/:id", bundles.GetByID)
	bd.POST("", manage, bundles.Create)
	bd.PUT("/:id", manage, bundles.Update)
	bd.POST("/:id/components", manage, bundles.AddComponent)
	bd.DELETE("/:id/components/:componentId", manage, bundles.RemoveComponent)
	bd.POST("/:id/activate", manage, bundles.Activate)
	bd.POST("/:id/deactivate", manage, bundles.Deactivate)
}

func registerSalesRoutes(rg *gin.RouterGroup, h *handler.TransactionHandler) {
	sell := middleware.RequirePermission(identity.PermProcessSales)
	void := middleware.RequirePermission(identity.PermVoidSales)

	t := rg.Group("/transactions")
	t.GET("", h.List)
	t.GET("/:id", h.GetByID)
	t.GET("/number/:number", h.GetByNumber)
	t.POST("", sell, h.Create)
	t.POST("/:id/items", sell, h.AddItem)
	t.PUT("/:id/items/:itemId", sell, h.UpdateItem)
	t.DELETE("/:id/items/:itemId", sell, h.RemoveItem)
	t.POST("/:id/discount", sell, h.ApplyDiscount)
	t.POST("/:id/complete", sell, h.Complete)
	t.POST("/:id/void", void, h.Void)
	t.GET("/:id/invoice", h.InvoiceDownloadURL)
	t.POST("/:id/invoice/regenerate", sell, h.RegenerateInvoice)
	t.POST("/:id/invoice/resend", sell, h.ResendInvoice)
}

func registerMembershipRoutes(rg *gin.RouterGroup, h *handler.TierHandler) {
	manage := middleware.RequirePermission(identity.PermManagePatients)

	tiers := rg.Group("/membership-tiers")
	tiers.GET("", h.List)
	tiers.GET("/:id", h.GetByID)
	tiers.POST("", manage, h.Create)
	tiers.PUT("/:id", manage, h.Update)
	tiers.POST("/:id/activate", manage, h.Activate)
	tiers.POST("/:id/deactivate", manage, h.Deactivate)
	tiers.DELETE("/:id", manage, h.Delete)
}

func registerUserRoutes(rg *gin.RouterGroup, h *handler.UserHandler) {
	admin := middleware.RequireRole(string(identity.RoleAdmin))

	users := rg.Group("/users", admin)
	users.GET("", h.List)
	users.GET("/:id", h.GetByID)
	users.POST("", h.Create)
	users.PUT("/:id", h.Update)
	users.POST("/:id/reset-password", h.ResetPassword)
	users.POST("/:id/unlock", h.Unlock)
	users.POST("/:id/activate", h.Activate)
	users.POST("/:id/deactivate", h.Deactivate)
	users.POST("/:id/force-logout", h.ForceLogout)
}

func registerAdminRoutes(rg *gin.RouterGroup, h *handler.AdminHandler) {
	bulk := middleware.RequirePermission(identity.PermRunBulkActions)
	report := middleware.RequirePermission(identity.PermViewReports)

	admin := rg.Group("/admin")
	admin.POST("/bulk/prices/adjust", bulk, h.AdjustPrices)
	admin.POST("/bulk/patients/archive", bulk, h.ArchivePatients)
	admin.POST("/bulk/tiers/reassign", bulk, h.ReassignTier)
	admin.GET("/reports/low-stock", report, h.LowStockReport)
}
