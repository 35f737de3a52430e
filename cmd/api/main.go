package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Confeccion-api/internal/application/audit"
	"github.com/jhoicas/Confeccion-api/internal/application/authz"
	"github.com/jhoicas/Confeccion-api/internal/application/materials"
	"github.com/jhoicas/Confeccion-api/internal/application/progress"
	"github.com/jhoicas/Confeccion-api/internal/application/project"
	"github.com/jhoicas/Confeccion-api/internal/application/supply"
	"github.com/jhoicas/Confeccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Confeccion-api/internal/interfaces/http"
	"github.com/jhoicas/Confeccion-api/pkg/config"
	"github.com/jhoicas/Confeccion-api/pkg/logger"
)

const swaggerSpec = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Bool("block_on_insufficient_stock", cfg.Production.BlockOnInsufficientStock).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	// La auditoría escribe fuera de la transacción de negocio.
	auditSink := audit.NewRepositorySink(postgres.NewAuditRepository(pool), log)

	ledger := supply.NewLedger()
	engine := materials.NewEngine(ledger, materials.Options{
		BlockOnInsufficientStock: cfg.Production.BlockOnInsufficientStock,
	}, log)

	projectUC := project.NewUseCase(txRunner, repos, engine, auditSink, cfg.Production.CodePrefix, log)
	progressUC := progress.NewUseCase(txRunner, repos, auditSink, log)
	materialsUC := materials.NewUseCase(txRunner, repos, engine, auditSink, log)
	supplyUC := supply.NewUseCase(txRunner, repos, ledger, log)

	permissions := postgres.NewPermissionRepository(pool)
	permissionChain := authz.NewChain(repos.Areas, log,
		authz.UserOverrideResolver{Repo: permissions},
		authz.RoleOverrideResolver{Repo: permissions},
		authz.NewRoleFallbackResolver(cfg.Production.FullAccessRoleIDs),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerSpec); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerSpec,
			Path:     "docs",
			Title:    "Confección API",
		}))
	} else {
		log.Warn().Str("file", swaggerSpec).Msg("swagger deshabilitado: no se encontró la especificación")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProjectUC:   projectUC,
		ProgressUC:  progressUC,
		MaterialsUC: materialsUC,
		SupplyUC:    supplyUC,
		Permissions: permissionChain,
		JWTSecret:   cfg.JWT.Secret,
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
