package router

import (
	"time"

	"github.com/LionelChoque/presupuestos-app/internal/config"
	"github.com/LionelChoque/presupuestos-app/internal/handler"
	"github.com/LionelChoque/presupuestos-app/internal/middleware"
	"github.com/LionelChoque/presupuestos-app/internal/repository"
	"github.com/LionelChoque/presupuestos-app/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	presupuestoRepo := repository.NewPresupuestoRepository(db)
	actividadRepo := repository.NewActividadRepository(db)
	importacionRepo := repository.NewImportacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	actividadSvc := service.NewActividadService(actividadRepo, usuarioRepo)
	authSvc := service.NewAuthService(usuarioRepo, actividadSvc, cfg)
	presupuestoSvc := service.NewPresupuestoService(presupuestoRepo, actividadSvc)
	importacionSvc := service.NewImportacionService(presupuestoRepo, importacionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc, actividadSvc)
	presupuestosH := handler.NewPresupuestosHandler(presupuestoSvc)
	contactosH := handler.NewContactosHandler(presupuestoSvc)
	importacionH := handler.NewImportacionHandler(importacionSvc, actividadSvc, cfg.DemoCSVPath)
	actividadesH := handler.NewActividadesHandler(actividadSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Registro abierto: el primer usuario del sistema se convierte en admin.
	r.POST("/v1/auth/register", usuariosH.Crear)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/user", authH.Me)

		v1.GET("/presupuestos", presupuestosH.Listar)
		v1.GET("/presupuestos/:id", presupuestosH.Obtener)
		v1.GET("/presupuestos/:id/items", presupuestosH.ObtenerItems)
		v1.PATCH("/presupuestos/:id", presupuestosH.Actualizar)

		v1.GET("/contactos", contactosH.Listar)
		v1.GET("/contactos/:budgetId", contactosH.Obtener)
		v1.POST("/contactos", contactosH.Guardar)

		v1.POST("/import", importacionH.Importar)
		v1.POST("/import/demo", importacionH.ImportarDemo)
		v1.GET("/import/logs", importacionH.ListarRegistros)

		v1.GET("/usuarios/:id/actividades", actividadesH.ListarPorUsuario)

		admin := v1.Group("", middleware.RequireRole("admin"))
		{
			admin.POST("/usuarios", usuariosH.Crear)
			admin.GET("/usuarios", usuariosH.Listar)
			admin.DELETE("/usuarios/:id", usuariosH.Desactivar)
			admin.PATCH("/usuarios/:id/reactivar", usuariosH.Reactivar)
			admin.GET("/actividades", actividadesH.Listar)
			admin.GET("/admin/stats", actividadesH.Estadisticas)
		}

		// Self-or-admin: authorization decided inside the handler
		v1.PUT("/usuarios/:id", usuariosH.Actualizar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
