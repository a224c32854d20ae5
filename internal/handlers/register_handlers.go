package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/resource_bank/cmd/docs"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/SscSPs/resource_bank/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the public, auth and admin groups under /api/v1
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	publicLimiter, err := middleware.NewMemoryLimiter(cfg.PublicRateLimit)
	if err != nil {
		return fmt.Errorf("public rate limit: %w", err)
	}

	v1 := r.Group("/api/v1")
	registerAuthRoutes(v1, services.Auth)

	public := v1.Group("", middleware.RateLimit(publicLimiter))
	registerResourceRoutes(public, services.Market, services.History)
	registerClientRoutes(public, services.Client, services.Instrument)

	admin := v1.Group("/admin", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	registerAdminRoutes(admin, services)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
