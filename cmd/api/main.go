package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/primegestor/primegestor-api/internal/application/audit"
	"github.com/primegestor/primegestor-api/internal/application/auth"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
	"github.com/primegestor/primegestor-api/internal/application/report"
	"github.com/primegestor/primegestor-api/internal/application/usecase"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/primegestor/primegestor-api/internal/infrastructure/memory"
	"github.com/primegestor/primegestor-api/internal/infrastructure/postgres"
	"github.com/primegestor/primegestor-api/internal/infrastructure/redislock"
	httpRouter "github.com/primegestor/primegestor-api/internal/interfaces/http"
	"github.com/primegestor/primegestor-api/pkg/config"
	"github.com/primegestor/primegestor-api/pkg/logger"
	"github.com/primegestor/primegestor-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// repositories puertos que consume la app, sea cual sea el backend.
type repositories struct {
	tx         inventory.TxRunner
	users      repository.UserRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	suppliers  repository.SupplierRepository
	customers  repository.CustomerRepository
	batches    repository.StockBatchRepository
	movements  repository.StockMovementRepository
	sales      repository.SaleRepository
	purchases  repository.PurchaseRepository
	logs       repository.ActivityLogRepository
	reports    repository.ReportRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	invMetrics := metrics.NewInventoryMetrics(registry)

	auditWorker := audit.NewWorker(repos.logs, log, cfg.Inventory.AuditBuffer)
	auditWorker.Start(ctx)

	var locker inventory.ProductLocker = inventory.NoopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = redislock.FromRedis(rdb, cfg.Redis, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("lock por producto en Redis habilitado")
	}

	invDeps := inventory.Deps{
		Tx:         repos.tx,
		Products:   repos.products,
		Suppliers:  repos.suppliers,
		Customers:  repos.customers,
		Locker:     locker,
		Audit:      auditWorker,
		Metrics:    invMetrics,
		Log:        log,
		MaxRetries: cfg.Inventory.MaxRetries,
	}

	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "PrimeGestor API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(repos.users),
		WarehouseUC: usecase.NewWarehouseUseCase(repos.warehouses),
		ProductUC:   usecase.NewProductUseCase(repos.products, repos.warehouses, repos.suppliers, auditWorker),
		SupplierUC:  usecase.NewSupplierUseCase(repos.suppliers),
		CustomerUC:  usecase.NewCustomerUseCase(repos.customers),
		ActivityUC:  usecase.NewActivityLogUseCase(repos.logs),
		Purchase:    inventory.NewCreatePurchaseUseCase(invDeps),
		Sale:        inventory.NewCreateSaleUseCase(invDeps),
		Query:       inventory.NewQueryUseCase(repos.products, repos.sales, repos.purchases, repos.batches, repos.movements),
		Reports:     report.NewReportUseCase(repos.reports),
		JWTSecret:   cfg.JWT.Secret,
		Gatherer:    registry,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Primero se cierra HTTP para que no lleguen más entradas de auditoría.
	if err := auditWorker.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("cola de auditoría no vaciada por completo")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			tx:         store,
			users:      store.Users(),
			warehouses: store.Warehouses(),
			products:   store.Products(),
			suppliers:  store.Suppliers(),
			customers:  store.Customers(),
			batches:    store.Batches(),
			movements:  store.Movements(),
			sales:      store.Sales(),
			purchases:  store.Purchases(),
			logs:       store.ActivityLogs(),
			reports:    store.Reports(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.App.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, "up"); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &repositories{
		tx:         postgres.NewTxRunner(pool, cfg.Inventory.LockTimeout),
		users:      postgres.NewUserRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		products:   postgres.NewProductRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		customers:  postgres.NewCustomerRepository(pool),
		batches:    postgres.NewStockBatchRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		purchases:  postgres.NewPurchaseRepository(pool),
		logs:       postgres.NewActivityLogRepository(pool),
		reports:    postgres.NewReportRepository(pool),
		close:      pool.Close,
	}, nil
}
