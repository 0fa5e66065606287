// @title        ERP Ledger API
// @version      1.0
// @description  Ledger de inventario, stock por ubicación y trazabilidad de lotes.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
// @description  Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/erp-ledger/docs"
	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/lineage"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/erp-ledger/internal/interfaces/http"
	"github.com/jhoicas/erp-ledger/pkg/config"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// stores repositorios que dependen del backend elegido (LEDGER_STORE).
type stores struct {
	txRunner  inventory.TxRunner
	stock     repository.StockRepository
	ledger    repository.LedgerRepository
	materials repository.MaterialRepository
	locations repository.LocationRepository
	lineage   repository.LineageRepository
	close     func()
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
		Str("store", cfg.Ledger.Store).
		Msg("iniciando aplicación")

	tz, err := cfg.Ledger.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del ledger")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Guarda de confirmación: Redis si está configurado (varias réplicas), si no en proceso.
	var guard documents.DocumentGuard = memory.NewDocumentGuard(cfg.Ledger.LockTimeout())
	if cfg.Redis.Enabled() {
		rg, err := redislock.Connect(ctx, redislock.Config{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Ledger.DocumentLockTTLDuration(),
			Wait:     cfg.Ledger.LockTimeout(),
		}, log.Component("redislock"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rg.Close()
		guard = rg
	}

	applier := inventory.NewMovementApplier(st.txRunner, st.materials, st.locations, log.Component("movement_applier"), tz)
	queryUC := inventory.NewQueryUseCase(st.stock, st.ledger)
	confirmationUC := documents.NewConfirmationUseCase(applier, guard, log.Component("documents"))
	resolver := lineage.NewResolver(st.lineage, cfg.Lineage.MaxDepth)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Ledger.Store})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Applier:      applier,
		Query:        queryUC,
		Confirmation: confirmationUC,
		Resolver:     resolver,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
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

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Ledger.Store == "memory" {
		store := memory.NewStore(cfg.Ledger.LockTimeout())
		if cfg.Ledger.CatalogFile != "" {
			c, err := catalog.LoadFile(cfg.Ledger.CatalogFile)
			if err != nil {
				return nil, err
			}
			for _, m := range c.Materials {
				store.AddMaterial(m)
			}
			for _, l := range c.Locations {
				store.AddLocation(l)
			}
			log.Info().Int("materials", len(c.Materials)).Int("locations", len(c.Locations)).Msg("catálogo cargado en memoria")
		}
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return &stores{
			txRunner:  store,
			stock:     store.Stock(),
			ledger:    store.Ledger(),
			materials: store.Materials(),
			locations: store.Locations(),
			lineage:   store.Lineage(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &stores{
		txRunner:  postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout()),
		stock:     postgres.NewStockRepository(pool),
		ledger:    postgres.NewLedgerRepository(pool),
		materials: postgres.NewMaterialRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		lineage:   postgres.NewLineageRepository(pool),
		close:     pool.Close,
	}, nil
}
