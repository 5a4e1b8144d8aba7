package v1

import (
	"github.com/gin-gonic/gin"

	"comercia/internal/domain/auth"
	"comercia/internal/domain/catalogs/business"
	"comercia/internal/domain/catalogs/category"
	"comercia/internal/domain/catalogs/customer"
	"comercia/internal/domain/catalogs/employee"
	"comercia/internal/domain/catalogs/paymentmethod"
	"comercia/internal/domain/catalogs/product"
	"comercia/internal/domain/catalogs/status"
	"comercia/internal/domain/catalogs/supplier"
	"comercia/internal/domain/debts"
	"comercia/internal/domain/documents/transaction"
	"comercia/internal/domain/registers/stock"
	"comercia/internal/infrastructure/http/v1/handlers"
	"comercia/internal/infrastructure/http/v1/middleware"
	"comercia/internal/infrastructure/storage/postgres"
	"comercia/internal/infrastructure/storage/postgres/catalog_repo"
	"comercia/internal/infrastructure/storage/postgres/debt_repo"
	"comercia/internal/infrastructure/storage/postgres/document_repo"
	"comercia/internal/infrastructure/storage/postgres/register_repo"
	"comercia/pkg/logger"
	"comercia/pkg/numerator"
)

// RouterConfig holds everything the router needs to assemble the API.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, stats).
	Pool *postgres.Pool

	// TxManager owns units of work. Every repo goes through it.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service

	// Numerator hands out invoice numbers.
	Numerator *numerator.Service

	// Activity records entity history after commits. Optional.
	Activity *postgres.ActivityService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Everything past this point needs a valid token.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerBusinessRoutes(protected, cfg)
		registerActivityRoutes(protected, cfg)

		// Catalog and document routes additionally need a business claim.
		scoped := protected.Group("")
		scoped.Use(middleware.RequireBusiness())

		registerCatalogRoutes(scoped, cfg)
		registerDocumentRoutes(scoped, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	public := rg.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)
	}

	private := rg.Group("/auth")
	private.Use(middleware.Auth(cfg.JWTValidator))
	{
		private.POST("/logout", authHandler.Logout)
		private.GET("/me", authHandler.Me)
	}
}

// registerBusinessRoutes registers business management endpoints. They
// sit outside the RequireBusiness group: a fresh account has no
// business yet and creates its first one here.
func registerBusinessRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := catalog_repo.NewBusinessRepo(cfg.TxManager)
	service := business.NewService(repo, cfg.TxManager)
	handler := handlers.NewBusinessHandler(baseHandler, service, cfg.AuthService)

	businesses := rg.Group("/businesses")
	{
		businesses.POST("", handler.Create)
		businesses.GET("", handler.List)
		businesses.GET("/:id", handler.Get)
		businesses.PUT("/:id", handler.Update)
	}
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- CATEGORIES ---
	{
		repo := catalog_repo.NewCategoryRepo(cfg.TxManager)
		service := category.NewService(repo, cfg.TxManager)
		handler := handlers.NewCategoryHandler(baseHandler, service)
		RegisterCatalogRoutes(rg.Group("/categories"), handler)
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo(cfg.TxManager)
		service := customer.NewService(repo, cfg.TxManager)
		handler := handlers.NewCustomerHandler(baseHandler, service)
		RegisterCatalogRoutes(rg.Group("/customers"), handler)
	}

	// --- SUPPLIERS ---
	{
		repo := catalog_repo.NewSupplierRepo(cfg.TxManager)
		service := supplier.NewService(repo, cfg.TxManager)
		handler := handlers.NewSupplierHandler(baseHandler, service)
		RegisterCatalogRoutes(rg.Group("/suppliers"), handler)
	}

	// --- EMPLOYEES ---
	{
		repo := catalog_repo.NewEmployeeRepo(cfg.TxManager)
		service := employee.NewService(repo, cfg.TxManager)
		handler := handlers.NewEmployeeHandler(baseHandler, service)
		RegisterCatalogRoutes(rg.Group("/employees"), handler)
	}

	// --- PAYMENT METHODS ---
	{
		repo := catalog_repo.NewPaymentMethodRepo(cfg.TxManager)
		service := paymentmethod.NewService(repo, cfg.TxManager)
		handler := handlers.NewPaymentMethodHandler(baseHandler, service)
		RegisterCatalogRoutes(rg.Group("/payment-methods"), handler)
	}

	// --- STATUSES (read-only reference data) ---
	{
		repo := catalog_repo.NewStatusRepo(cfg.TxManager)
		service := status.NewService(repo, cfg.TxManager)
		handler := handlers.NewStatusHandler(baseHandler, service)
		statuses := rg.Group("/statuses")
		statuses.GET("", handler.List)
		statuses.GET("/:id", handler.Get)
	}

	// --- PRODUCTS + VARIANTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.TxManager)
		stockService := stock.NewService(register_repo.NewStockRepo(cfg.TxManager))
		handler := handlers.NewProductHandler(baseHandler, service, stockService)
		products := rg.Group("/products")
		RegisterCatalogRoutes(products, handler)
		products.GET("/:id/stock", handler.Stock)
		products.GET("/:id/variants", handler.ListVariants)
		products.POST("/:id/variants", handler.CreateVariant)
		products.GET("/:id/variants/:variantId", handler.GetVariant)
		products.PUT("/:id/variants/:variantId", handler.UpdateVariant)
		products.DELETE("/:id/variants/:variantId", handler.DeleteVariant)
	}
}

// registerDocumentRoutes registers the transaction engine, the stock
// register and the debt endpoints. They share one dependency graph so
// that a transaction, its stock effect and its debt always travel
// through the same TxManager.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productService := product.NewService(catalog_repo.NewProductRepo(cfg.TxManager), cfg.TxManager)
	customerService := customer.NewService(catalog_repo.NewCustomerRepo(cfg.TxManager), cfg.TxManager)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(cfg.TxManager), cfg.TxManager)
	employeeService := employee.NewService(catalog_repo.NewEmployeeRepo(cfg.TxManager), cfg.TxManager)
	methodService := paymentmethod.NewService(catalog_repo.NewPaymentMethodRepo(cfg.TxManager), cfg.TxManager)
	statusService := status.NewService(catalog_repo.NewStatusRepo(cfg.TxManager), cfg.TxManager)

	stockService := stock.NewService(register_repo.NewStockRepo(cfg.TxManager))
	debtService := debts.NewService(debt_repo.NewDebtRepo(cfg.TxManager), cfg.TxManager)

	engineCfg := transaction.ServiceConfig{
		Repo:      document_repo.NewTransactionRepo(cfg.TxManager),
		Products:  productService,
		Customers: customerService,
		Suppliers: supplierService,
		Employees: employeeService,
		Methods:   methodService,
		Statuses:  statusService,
		Stock:     stockService,
		Debts:     debtService,
		Numerator: cfg.Numerator,
		TxManager: cfg.TxManager,
	}
	if cfg.Activity != nil {
		engineCfg.Activity = cfg.Activity
	}
	engine := transaction.NewService(engineCfg)

	transactionHandler := handlers.NewTransactionHandler(baseHandler, engine)
	stockHandler := handlers.NewStockHandler(baseHandler, stockService)
	debtHandler := handlers.NewDebtHandler(baseHandler, debtService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", transactionHandler.List)
		transactions.POST("", transactionHandler.Create)
		transactions.GET("/:id", transactionHandler.Get)
		transactions.PUT("/:id", transactionHandler.Update)
		transactions.DELETE("/:id", transactionHandler.Delete)
		transactions.POST("/:id/return", transactionHandler.RegisterReturn)
		transactions.GET("/:id/movements", stockHandler.MovementsByTransaction)
	}

	stockGroup := rg.Group("/stock")
	{
		stockGroup.GET("/movements", stockHandler.History)
	}

	debtsGroup := rg.Group("/debts")
	{
		debtsGroup.GET("", debtHandler.List)
		debtsGroup.GET("/:id", debtHandler.Get)
		debtsGroup.GET("/:id/payments", debtHandler.ListPayments)
		debtsGroup.POST("/:id/payments", debtHandler.RecordPayment)
	}
}

// registerActivityRoutes registers the entity history endpoint.
// Admin-only: history entries are not scoped per business.
func registerActivityRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Activity == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewActivityHandler(baseHandler, cfg.Activity)

	rg.GET("/activity", middleware.RequireAdmin(), handler.History)
}
