package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/api/middleware"
	"github.com/ziyyanmart/localstore/internal/app"
	"github.com/ziyyanmart/localstore/internal/logger"
)

// SetupRoutes builds the engine serving the UI bridge.
func SetupRoutes(a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(a.Config.Misc.HoneybadgerAPIKey, a.Config.Misc.HoneybadgerEnv, logger.WithComponent("http")))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(a.Config.Server.AllowedOrigins()))
	r.Use(a.Metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	r.GET("/ws", gin.WrapF(a.Hub.ServeWS))

	api := r.Group("/api")
	timeout := a.Config.Server.RequestTimeout

	NewInvokeRouter(timeout, api, a.Commands)
	NewDialogRouter(timeout, api, a.Broker)
	NewStorageRouter(timeout, api, a.Commands)
	NewConfigurationRouter(timeout, api, a.Config)
	NewUIRouter(r, a.Config.Server.UIDir)

	return r
}
