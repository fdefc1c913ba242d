package controller

import (
	"fmt"
	"net/http"

	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/dialog"
)

// DialogBroker is the part of dialog.Broker the UI talks to.
type DialogBroker interface {
	Pending() []dialog.Request
	Answer(id string, answer dialog.Answer) error
}

// DialogController lets the UI list and answer save dialogs.
type DialogController struct {
	broker DialogBroker
}

func NewDialogController(broker DialogBroker) *DialogController {
	return &DialogController{broker: broker}
}

type answerRequest struct {
	Path      string `json:"path"`
	Cancelled bool   `json:"cancelled"`
}

// List returns outstanding dialogs, oldest first.
func (dc *DialogController) List(c *gin.Context) {
	c.JSON(http.StatusOK, dc.broker.Pending())
}

// Answer resolves a dialog with {"path": "..."} or {"cancelled": true}.
func (dc *DialogController) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, fmt.Errorf("invalid answer: %v: %w", err, errdefs.ErrInvalidArgument))
		return
	}
	if !req.Cancelled && req.Path == "" {
		abortWithError(c, fmt.Errorf("answer needs a path or cancelled=true: %w", errdefs.ErrInvalidArgument))
		return
	}

	if err := dc.broker.Answer(c.Param("id"), dialog.Answer{Path: req.Path, Cancelled: req.Cancelled}); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
