package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ziyyanmart/localstore/internal/command"
)

// slowInvoker takes longer than the request timeout unless its context ends first.
type slowInvoker struct {
	delay time.Duration
}

func (s slowInvoker) Invoke(ctx context.Context, name string, _ json.RawMessage) (command.Result, error) {
	select {
	case <-time.After(s.delay):
		return command.Result{Value: json.RawMessage(`"` + name + `"`)}, nil
	case <-ctx.Done():
		return command.Result{}, ctx.Err()
	}
}

func TestNewInvokeRouter_TimeoutAppliesToAllButSaveBackup(t *testing.T) {
	r := gin.New()
	NewInvokeRouter(30*time.Millisecond, r.Group("/api"), slowInvoker{delay: 150 * time.Millisecond})

	for _, name := range command.Names() {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/invoke/"+name, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if name == command.SaveBackup {
				assert.Equal(t, http.StatusOK, w.Code)
				assert.JSONEq(t, `"save_backup"`, w.Body.String())
				return
			}
			assert.Equal(t, http.StatusGatewayTimeout, w.Code)
			assert.Contains(t, w.Body.String(), `"kind":"timeout"`)
		})
	}
}

func TestNewInvokeRouter_ZeroTimeoutLeavesEveryCommandUnbounded(t *testing.T) {
	r := gin.New()
	NewInvokeRouter(0, r.Group("/api"), slowInvoker{delay: 20 * time.Millisecond})

	req := httptest.NewRequest(http.MethodPost, "/api/invoke/"+command.GetDatabase, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"get_database"`, w.Body.String())
}
