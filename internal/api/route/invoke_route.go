package route

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/api/controller"
	"github.com/ziyyanmart/localstore/internal/api/middleware"
	"github.com/ziyyanmart/localstore/internal/command"
)

// NewInvokeRouter registers one POST route per command. save_backup waits for the
// user to answer the dialog and therefore gets no request timeout.
func NewInvokeRouter(timeout time.Duration, group *gin.RouterGroup, invoker controller.Invoker) {
	ic := controller.NewInvokeController(invoker)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	for _, name := range command.Names() {
		if name == command.SaveBackup {
			group.POST("invoke/"+name, ic.Handle(name))
			continue
		}
		group.POST("invoke/"+name, timeoutMiddleware, ic.Handle(name))
	}
}
