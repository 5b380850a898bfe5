package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/application/pedido"
	"github.com/movelaria/estoque-api/internal/application/usecase"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/movelaria/estoque-api/internal/pkg/cache"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	VariantUC     *usecase.VariantUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	UserUC        *usecase.UserUseCase
	Recorder      *estoque.MovementRecorder
	Reservas      *estoque.ReservationManager
	Avail         *estoque.AvailabilityCalculator
	Scan          *estoque.ScanService
	Finalize      *pedido.FinalizeService
	Reconciler    *pedido.Reconciler
	Movements     repository.MovementRepository
	Balances      repository.BalanceRepository
	Transfers     repository.TransferRepository
	Cache         cache.Client
	ScanRateLimit int
	JWTSecret     string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: cadastro restrito a admin, leitura para todos autenticados
	variants := protected.Group("/variantes")
	variantHandler := NewVariantHandler(deps.VariantUC)
	variants.Post("/", RequireRole("admin"), variantHandler.Create)
	variants.Get("/", variantHandler.List)
	variants.Get("/:id", variantHandler.GetByID)
	variants.Put("/:id", RequireRole("admin"), variantHandler.Update)

	warehouses := protected.Group("/depositos")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole("admin"), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Núcleo de estoque: escrita restrita a admin e estoquista
	estoqueHandler := NewEstoqueHandler(deps.Recorder, deps.Reservas, deps.Avail, deps.Scan, deps.Movements, deps.Balances, deps.Transfers)
	estoqueGroup := protected.Group("/estoque")
	estoqueGroup.Post("/movimentos", RequireRole("admin", "estoquista"), estoqueHandler.CommitBatch)
	estoqueGroup.Post("/transferencias", RequireRole("admin", "estoquista"), estoqueHandler.CommitTransfer)
	estoqueGroup.Get("/transferencias", estoqueHandler.Transfers)
	estoqueGroup.Get("/scan/:barcode", ScanRateLimit(deps.Cache, deps.ScanRateLimit), estoqueHandler.Scan)
	estoqueGroup.Get("/disponibilidade/:id", estoqueHandler.Availability)
	estoqueGroup.Get("/saldos/:id", estoqueHandler.Balances)
	estoqueGroup.Get("/lotes/:lotId/movimentos", estoqueHandler.MovementsByLot)
	estoqueGroup.Get("/variantes/:id/movimentos", estoqueHandler.MovementsByVariant)

	// Reservas avulsas e consumo na expedição
	reservas := protected.Group("/reservas")
	reservas.Post("/", RequireRole("admin", "vendedor"), estoqueHandler.Reserve)
	reservas.Post("/:id/consumo", RequireRole("admin", "estoquista"), estoqueHandler.ConsumeReservation)

	// Pedidos: finalização, reconciliação e cancelamento de reservas
	pedidoHandler := NewPedidoHandler(deps.Finalize, deps.Reconciler, deps.Reservas)
	pedidos := protected.Group("/pedidos")
	pedidos.Post("/finalizacao", RequireRole("admin", "vendedor"), pedidoHandler.Finalize)
	pedidos.Post("/reconciliacao", RequireRole("admin", "vendedor"), pedidoHandler.Reconcile)
	pedidos.Post("/:id/reservas/cancelamento", RequireRole("admin", "vendedor"), pedidoHandler.CancelReservations)
}
