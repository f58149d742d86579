package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/railops/cardstock-api/internal/application/auth"
	"github.com/railops/cardstock-api/internal/application/cards"
	"github.com/railops/cardstock-api/internal/application/catalog"
	"github.com/railops/cardstock-api/internal/application/inventory"
	"github.com/railops/cardstock-api/internal/application/ports"
	"github.com/railops/cardstock-api/internal/application/stock"
	"github.com/railops/cardstock-api/internal/application/transfer"
	"github.com/railops/cardstock-api/internal/infrastructure/postgres"
	"github.com/railops/cardstock-api/internal/infrastructure/rediscache"
	httpRouter "github.com/railops/cardstock-api/internal/interfaces/http"
	"github.com/railops/cardstock-api/pkg/config"
	"github.com/railops/cardstock-api/pkg/jwt"
	"github.com/railops/cardstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	logger.Init(cfg.App.Env)
	logger.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	cardRepo := postgres.NewCardRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	productRepo := postgres.NewCardProductRepository(pool)
	categoryRepo := postgres.NewCardCategoryRepository(pool)
	typeRepo := postgres.NewCardTypeRepository(pool)
	stationRepo := postgres.NewStationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de snapshots sobre Redis; REDIS_ADDR vacío lo desactiva.
	var invalidator ports.SnapshotInvalidator = ports.NopInvalidator{}
	var snapshotCache inventory.SnapshotCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := rediscache.New(redisClient, cfg.Redis.TTL)
		invalidator = cache
		snapshotCache = cache
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("cache de snapshots habilitado")
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	generateUC := stock.NewGenerateUseCase(txRunner, productRepo, cardRepo, invalidator)
	stockInUC := stock.NewStockInUseCase(txRunner, invalidator)
	stockOutUC := stock.NewStockOutUseCase(txRunner, movementRepo, invalidator)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, invalidator)
	inventoryUC := inventory.NewUseCase(cardRepo, snapshotCache)
	cardsUC := cards.NewUseCase(txRunner, cardRepo, invalidator)
	catalogUC := catalog.NewUseCase(categoryRepo, typeRepo, productRepo, stationRepo)
	authUC := auth.NewUseCase(userRepo, jwtManager)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cardstock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		GenerateUC:  generateUC,
		StockInUC:   stockInUC,
		StockOutUC:  stockOutUC,
		TransferUC:  transferUC,
		InventoryUC: inventoryUC,
		CardsUC:     cardsUC,
		CatalogUC:   catalogUC,
		AuthUC:      authUC,
		JWTManager:  jwtManager,
	})

	go func() {
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
			logger.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("apagado del servidor")
	}

	logger.Info().Msg("aplicación detenida")
}
