package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/application/pedido"
	"github.com/movelaria/estoque-api/internal/application/usecase"
	"github.com/movelaria/estoque-api/internal/infrastructure/postgres"
	httpRouter "github.com/movelaria/estoque-api/internal/interfaces/http"
	"github.com/movelaria/estoque-api/internal/pkg/cache"
	"github.com/movelaria/estoque-api/pkg/config"
	"github.com/movelaria/estoque-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com o PostgreSQL")
	}
	defer pool.Close()

	var cacheClient cache.Client = cache.Noop{}
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr)
		if err != nil {
			log.Fatal().Err(err).Msg("conexão com o Redis")
		}
		cacheClient = redisClient
	} else {
		log.Warn().Msg("REDIS_ADDR vazio; rate limit do balcão desativado")
	}

	variantRepo := postgres.NewVariantRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	avail := estoque.NewAvailabilityCalculator(balanceRepo, reservationRepo)
	validator := estoque.NewBatchValidator(variantRepo, avail)
	recorder := estoque.NewMovementRecorder(txRunner, variantRepo, warehouseRepo, log)
	reservas := estoque.NewReservationManager(txRunner, recorder, log)
	scanSvc := estoque.NewScanService(variantRepo, avail, auditRepo)
	finalizeSvc := pedido.NewFinalizeService(txRunner, validator, recorder, reservas, log)
	reconciler := pedido.NewReconciler(txRunner, recorder, reservas, log)

	variantUC := usecase.NewVariantUseCase(variantRepo, txRunner)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, txRunner)
	userUC := usecase.NewUserUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs. Só monta quando o
	// swagger.json gerado existe; sem ele o middleware derrubaria o boot.
	const swaggerSpec = "./docs/swagger.json"
	if _, err := os.Stat(swaggerSpec); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerSpec,
			Path:     "docs",
			Title:    "Estoque API",
		}))
	} else {
		log.Warn().Str("path", swaggerSpec).Msg("swagger.json ausente; UI de documentação desativada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		VariantUC:     variantUC,
		WarehouseUC:   warehouseUC,
		UserUC:        userUC,
		Recorder:      recorder,
		Reservas:      reservas,
		Avail:         avail,
		Scan:          scanSvc,
		Finalize:      finalizeSvc,
		Reconciler:    reconciler,
		Movements:     movementRepo,
		Balances:      balanceRepo,
		Transfers:     transferRepo,
		Cache:         cacheClient,
		ScanRateLimit: cfg.Redis.RateLimit,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API de estoque no ar")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("encerrando")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
