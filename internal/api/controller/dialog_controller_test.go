package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ziyyanmart/localstore/internal/dialog"
)

type MockDialogBroker struct {
	mock.Mock
}

func (m *MockDialogBroker) Pending() []dialog.Request {
	return m.Called().Get(0).([]dialog.Request)
}

func (m *MockDialogBroker) Answer(id string, answer dialog.Answer) error {
	return m.Called(id, answer).Error(0)
}

func dialogRouter(b DialogBroker) *gin.Engine {
	r := gin.New()
	dc := NewDialogController(b)
	r.GET("/api/dialogs", dc.List)
	r.POST("/api/dialogs/:id", dc.Answer)
	return r
}

func TestDialogController_List(t *testing.T) {
	b := new(MockDialogBroker)
	created := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	b.On("Pending").Return([]dialog.Request{
		{ID: "a1", Title: "Simpan Backup Data", DefaultName: "ziyyanmart_backup_2024-05-03.json", CreatedAt: created},
	})

	w := httptest.NewRecorder()
	dialogRouter(b).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dialogs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"a1","title":"Simpan Backup Data","defaultName":"ziyyanmart_backup_2024-05-03.json","createdAt":"2024-05-03T09:00:00Z"}]`, w.Body.String())
}

func TestDialogController_Answer(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(b *MockDialogBroker)
		expectedStatus int
	}{
		{
			name: "confirm with path",
			body: `{"path":"/home/u/backup.json"}`,
			setup: func(b *MockDialogBroker) {
				b.On("Answer", "req-1", dialog.Answer{Path: "/home/u/backup.json"}).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "cancel",
			body: `{"cancelled":true}`,
			setup: func(b *MockDialogBroker) {
				b.On("Answer", "req-1", dialog.Answer{Cancelled: true}).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "already answered",
			body: `{"cancelled":true}`,
			setup: func(b *MockDialogBroker) {
				b.On("Answer", "req-1", mock.Anything).Return(fmt.Errorf("dialog \"req-1\": %w", errdefs.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "neither path nor cancel",
			body:           `{}`,
			setup:          func(b *MockDialogBroker) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"path":`,
			setup:          func(b *MockDialogBroker) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockDialogBroker)
			tt.setup(b)

			req := httptest.NewRequest(http.MethodPost, "/api/dialogs/req-1", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			dialogRouter(b).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			b.AssertExpectations(t)
		})
	}
}
