package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/config"
	"github.com/edital360/portal/internal/handlers"
	"github.com/edital360/portal/internal/logging"
	"github.com/edital360/portal/internal/middleware"
	"github.com/edital360/portal/internal/observability"
	"github.com/edital360/portal/internal/services"

	_ "github.com/edital360/portal/docs"
)

// @title           Edital 360 Portal API
// @version         1.0
// @description     Backend do portal de concursos públicos Edital 360. Faz a ponte entre o navegador e a API de concursos: autenticação por CPF, assistente de cadastro em etapas, criação de editais e pedidos de isenção de taxa.

// @contact.name   Edital 360
// @contact.email  suporte@edital360.gov.br

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name auth
// @tag.description Autenticação e recuperação de senha

// @tag.name cadastro
// @tag.description Assistente de cadastro em etapas

// @tag.name editais
// @tag.description Listagem, consulta e criação de editais

// @tag.name isencao
// @tag.description Pedidos de isenção de taxa de inscrição

// @tag.name perfil
// @tag.description Perfil do cidadão

// @tag.name health
// @tag.description Verificação de saúde

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	config.InitMongoDB()
	config.InitRedis()

	// Wire service instances
	services.InitServices()

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.AppConfig

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Health check endpoint
		v1.GET("/health", handlers.HealthCheck)

		// Authentication
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimit(cfg.LoginRatePerSecond, cfg.LoginRateBurst), handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.POST("/recuperar", handlers.RequestPasswordReset)
			auth.GET("/recuperar/:token", handlers.ValidateResetToken)
			auth.POST("/recuperar/:token", handlers.ResetPassword)
		}

		// Registration wizard
		cadastro := v1.Group("/cadastro")
		{
			cadastro.POST("", handlers.StartRegistration)
			cadastro.POST("/senha/forca", handlers.PasswordStrength)
			cadastro.PUT("/:id/pessoal", handlers.SavePersonalStep)
			cadastro.PUT("/:id/contato", handlers.SaveContactStep)
			cadastro.PUT("/:id/credenciais", handlers.SaveCredentialsStep)
			cadastro.POST("/:id/enviar", handlers.SubmitRegistration)
		}

		// Notices: listing and detail are public, creation is admin-only
		v1.GET("/editais", handlers.ListNotices)
		v1.GET("/editais/:id", handlers.GetNotice)

		authed := v1.Group("", middleware.AuthMiddleware(cfg.TokenCookieName))
		{
			authed.GET("/perfil", handlers.GetProfile)
			authed.PUT("/perfil", handlers.UpdateProfile)

			authed.GET("/editais/:id/isencao", handlers.GetExemptionStatus)
			authed.POST("/editais/:id/isencao", handlers.SubmitExemption)

			admin := authed.Group("", middleware.RequireAdmin(cfg.AdminRole))
			{
				admin.GET("/editais/rascunho", handlers.GetNoticeDraft)
				admin.PUT("/editais/rascunho/:step", handlers.SaveNoticeStep)
				admin.POST("/editais", handlers.PublishNotice)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Page navigation: the route guard decides between serving the app shell
	// and redirecting to /login or /
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.NoRoute(middleware.RouteGuard(cfg.TokenCookieName), func(c *gin.Context) {
		c.File(filepath.Join(staticDir, "index.html"))
	})

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
