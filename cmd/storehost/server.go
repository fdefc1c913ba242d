package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/enrichman/httpgrace"
	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/app"
	"github.com/ziyyanmart/localstore/internal/logger"
)

// declinePrompter answers every dialog with a cancellation.
type declinePrompter struct{}

func (declinePrompter) PromptSave(context.Context, string, string) (string, bool, error) {
	return "", false, nil
}

// createGraceHttpServer stops on SIGINT/SIGTERM. Pending save dialogs are
// cancelled before the drain so a waiting save_backup request can finish.
func createGraceHttpServer(a *app.App, r *gin.Engine) *httpgrace.Server {
	serverConfig := a.Config.Server
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	return httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Info("Shutting down UI bridge....")
			a.Broker.Close()
			a.Hub.Close()
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return a.BaseCtx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), "[storehost] ", log.LstdFlags)
			},
		),
	)
}

