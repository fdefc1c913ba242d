package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/api/controller"
	"github.com/ziyyanmart/localstore/internal/api/middleware"
)

// NewDialogRouter sets up the routes the UI uses to answer save dialogs.
func NewDialogRouter(timeout time.Duration, group *gin.RouterGroup, broker controller.DialogBroker) {
	dc := controller.NewDialogController(broker)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("dialogs", timeoutMiddleware, dc.List)
	group.POST("dialogs/:id", timeoutMiddleware, dc.Answer)
}
