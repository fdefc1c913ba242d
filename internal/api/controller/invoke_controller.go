package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/command"
)

// DocumentStateHeader tells the UI whether a load found a file.
const DocumentStateHeader = "X-Document-State"

// Invoker runs a named command. command.Commands implements it.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (command.Result, error)
}

// InvokeController exposes the command surface as POST /api/invoke/<command>.
type InvokeController struct {
	invoker Invoker
}

func NewInvokeController(invoker Invoker) *InvokeController {
	return &InvokeController{invoker: invoker}
}

// Handle returns the handler for one command. The body is the command's argument
// object and may be empty for commands without arguments.
func (ic *InvokeController) Handle(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		args, err := c.GetRawData()
		if err != nil {
			abortWithError(c, fmt.Errorf("read request body: %w", errdefs.ErrInvalidArgument))
			return
		}

		result, err := ic.invoker.Invoke(c.Request.Context(), name, args)
		if err != nil {
			abortWithError(c, err)
			return
		}

		if result.State != "" {
			c.Header(DocumentStateHeader, result.State)
		}
		value := result.Value
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", value)
	}
}
