package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/server/handlers"
	"github.com/mamadbah2/pagne/internal/server/views"
)

// New wires the Gin engine with required routes and middlewares.
func New(dashboard *handlers.DashboardHandler, orders *handlers.OrdersHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(views.Templates())

	r.GET("/", dashboard.Index)
	r.POST("/orders", dashboard.CreateOrder)
	r.POST("/orders/:id/delete", dashboard.RequestDelete)
	r.POST("/confirmations/:id/confirm", dashboard.Confirm)
	r.POST("/confirmations/:id/dismiss", dashboard.Dismiss)

	api := r.Group("/api")
	api.GET("/orders", orders.List)
	api.POST("/orders", orders.Create)
	api.DELETE("/orders/:id", orders.Delete)
	api.GET("/stats", orders.Stats)
	api.GET("/chart/profit", orders.ProfitChart)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
