package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. metrics may be nil.
func New(handler *handlers.FarmHandler, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	api.GET("/snapshot", handler.Snapshot)
	api.GET("/dashboard", handler.Dashboard)
	api.GET("/sensors", handler.Sensors)
	api.GET("/sensors/locations", handler.SensorLocations)
	api.POST("/refresh", handler.Refresh)
	api.GET("/production", handler.Production)

	api.GET("/controls", handler.Controls)
	api.PATCH("/controls/:id", handler.UpdateControl)
	api.POST("/controls/:id/toggle", handler.ToggleControl)
	api.POST("/controls/:id/automation", handler.ToggleAutomation)
	api.PUT("/controls/:id/target", handler.SetTarget)

	api.GET("/alerts", handler.Alerts)
	api.POST("/alerts/:id/read", handler.MarkAlertRead)

	api.GET("/maintenance", handler.Maintenance)
	api.POST("/maintenance", handler.CreateTask)
	api.PATCH("/maintenance/:id", handler.UpdateTask)
	api.PUT("/maintenance/:id/status", handler.SetTaskStatus)

	api.GET("/analytics", handler.Analytics)
	api.GET("/reports", handler.Report)
	api.GET("/reports/archive", handler.ReportArchive)

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
