package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railops/cardstock-api/internal/application/auth"
	"github.com/railops/cardstock-api/internal/application/cards"
	"github.com/railops/cardstock-api/internal/application/catalog"
	"github.com/railops/cardstock-api/internal/application/inventory"
	"github.com/railops/cardstock-api/internal/application/stock"
	"github.com/railops/cardstock-api/internal/application/transfer"
	"github.com/railops/cardstock-api/internal/domain/entity"
	"github.com/railops/cardstock-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	GenerateUC  *stock.GenerateUseCase
	StockInUC   *stock.StockInUseCase
	StockOutUC  *stock.StockOutUseCase
	TransferUC  *transfer.UseCase
	InventoryUC *inventory.UseCase
	CardsUC     *cards.UseCase
	CatalogUC   *catalog.UseCase
	AuthUC      *auth.UseCase
	JWTManager  *jwt.Manager
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público, registro solo admin)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTManager), RequireRole(entity.RoleAdmin), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTManager))

	// Catálogo (protegido, escritura solo admin)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogGroup := protected.Group("/catalog")
	catalogGroup.Get("/categories", catalogHandler.ListCategories)
	catalogGroup.Post("/categories", RequireRole(entity.RoleAdmin), catalogHandler.CreateCategory)
	catalogGroup.Get("/types", catalogHandler.ListTypes)
	catalogGroup.Post("/types", RequireRole(entity.RoleAdmin), catalogHandler.CreateType)
	catalogGroup.Get("/products", catalogHandler.ListProducts)
	catalogGroup.Post("/products", RequireRole(entity.RoleAdmin), catalogHandler.CreateProduct)

	stations := protected.Group("/stations")
	stations.Get("/", catalogHandler.ListStations)
	stations.Post("/", RequireRole(entity.RoleAdmin), catalogHandler.CreateStation)

	// Stock: generación y entradas/salidas de oficina solo admin; el historial
	// y la confirmación de recepción también los usan operadores de estación.
	stockHandler := NewStockHandler(deps.GenerateUC, deps.StockInUC, deps.StockOutUC)
	adminOnly := RequireRole(entity.RoleAdmin)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/generate", adminOnly, stockHandler.Generate)
	stockGroup.Get("/next-serial/:product_id", adminOnly, stockHandler.NextSerial)
	stockGroup.Post("/in", adminOnly, stockHandler.StockIn)
	stockGroup.Post("/confirm-generated", adminOnly, stockHandler.ConfirmGenerated)
	stockGroup.Post("/out", adminOnly, stockHandler.StockOut)
	stockGroup.Get("/movements", stockHandler.History)
	stockGroup.Post("/movements/:id/receipt", stockHandler.ConfirmReceipt)

	// Transferencias estación -> estación
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers := protected.Group("/transfers")
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/resolve", transferHandler.Resolve)
	transfers.Post("/:id/reject", transferHandler.Reject)

	// Tarjetas individuales (venta y ciclo de vida)
	cardHandler := NewCardHandler(deps.CardsUC)
	cardsGroup := protected.Group("/cards")
	cardsGroup.Get("/:serial", cardHandler.GetBySerial)
	cardsGroup.Post("/:serial/sell", cardHandler.Sell)
	cardsGroup.Post("/:serial/deactivate", cardHandler.Deactivate)
	cardsGroup.Post("/:serial/reactivate", cardHandler.Reactivate)
	cardsGroup.Post("/:serial/lost", cardHandler.MarkLost)
	cardsGroup.Post("/:serial/damaged", cardHandler.MarkDamaged)

	// Resumen de inventario
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/summary", inventoryHandler.Summary)
}
