package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/primegestor/primegestor-api/internal/application/auth"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/application/report"
	"github.com/primegestor/primegestor-api/internal/application/usecase"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	CustomerUC  *usecase.CustomerUseCase
	ActivityUC  *usecase.ActivityLogUseCase
	Purchase    *inventory.CreatePurchaseUseCase
	Sale        *inventory.CreateSaleUseCase
	Query       *inventory.QueryUseCase
	Reports     *report.ReportUseCase
	JWTSecret   string
	// Gatherer expone /metrics si no es nil.
	Gatherer prometheus.Gatherer
	Log      *logger.Logger
}

// NewApp crea la app Fiber con recover, ErrorHandler JSON y log de peticiones.
func NewApp(name string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: NewErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Post("/", managers, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	productHandler := NewProductHandler(deps.ProductUC, deps.Query)
	products := protected.Group("/products")
	products.Post("/", managers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", managers, productHandler.Update)
	products.Get("/:id/batches", productHandler.Batches)
	products.Get("/:id/movements", productHandler.Movements)

	partnerHandler := NewPartnerHandler(deps.SupplierUC, deps.CustomerUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", managers, partnerHandler.CreateSupplier)
	suppliers.Get("/", partnerHandler.ListSuppliers)
	suppliers.Get("/:id", partnerHandler.GetSupplier)

	customers := protected.Group("/customers")
	customers.Post("/", partnerHandler.CreateCustomer)
	customers.Get("/", partnerHandler.ListCustomers)
	customers.Get("/:id", partnerHandler.GetCustomer)

	inventoryHandler := NewInventoryHandler(deps.Purchase, deps.Sale, deps.Query)
	purchases := protected.Group("/purchases")
	purchases.Post("/", managers, inventoryHandler.CreatePurchase)
	purchases.Get("/", inventoryHandler.ListPurchases)
	purchases.Get("/:id", inventoryHandler.GetPurchase)

	sales := protected.Group("/sales")
	sales.Post("/", inventoryHandler.CreateSale)
	sales.Get("/", inventoryHandler.ListSales)
	sales.Get("/:id", inventoryHandler.GetSale)

	reportHandler := NewReportHandler(deps.Reports, deps.ActivityUC)
	reports := protected.Group("/reports", managers)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/stock-valuation", reportHandler.StockValuation)

	protected.Get("/activity-logs", RequireRole(entity.RoleAdmin), reportHandler.ActivityLogs)
}
