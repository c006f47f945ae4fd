// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tripmate/internal/http/handlers"
	"tripmate/internal/http/middleware"
)

func NewRouter(planner handlers.Planner, logger *zap.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	tripHandler := handlers.NewTripHandler(planner, logger)
	r.POST("/api/trip/plan", tripHandler.Plan)
	r.GET("/ws", tripHandler.Stream)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
