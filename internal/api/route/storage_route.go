package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/api/controller"
	"github.com/ziyyanmart/localstore/internal/api/middleware"
)

// NewStorageRouter sets up the storage location route.
func NewStorageRouter(timeout time.Duration, group *gin.RouterGroup, reporter controller.StorageReporter) {
	sc := controller.NewStorageController(reporter)
	group.GET("storage", middleware.RequestTimeout(timeout), sc.GetStorage)
}
