package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/edital360/portal/internal/config"
	"github.com/edital360/portal/internal/observability"
)

// HealthCheck godoc
// @Summary Verificar saúde do serviço
// @Description Confere a conectividade com Redis e MongoDB.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Serviço saudável"
// @Failure 503 {object} HealthResponse "Dependência indisponível"
// @Router /v1/health [get]
func HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := config.Redis.Exists(ctx, "health:probe").Err(); err != nil {
		observability.Logger().Error("health check: redis unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Service: "edital360-portal"})
		return
	}

	if err := config.MongoDB.Client().Ping(ctx, readpref.Primary()); err != nil {
		observability.Logger().Error("health check: mongodb unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Service: "edital360-portal"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Service: "edital360-portal"})
}
