package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error onto an HTTP status and a kind label. A cancelled save
// dialog is a 409 so the UI can tell it apart from a real failure.
func classify(err error) (int, string) {
	if kind, ok := apperr.KindOf(err); ok {
		switch kind {
		case apperr.KindUserCancelled:
			return http.StatusConflict, string(kind)
		case apperr.KindSerialization:
			return http.StatusBadRequest, string(kind)
		default:
			return http.StatusInternalServerError, string(kind)
		}
	}

	switch {
	case errdefs.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errdefs.IsInvalidArgument(err):
		return http.StatusBadRequest, "invalid_argument"
	case errdefs.IsUnavailable(err):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "cancelled"
	}
	return http.StatusInternalServerError, "internal"
}

func abortWithError(c *gin.Context, err error) {
	status, kind := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
}
