package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/config"
	"github.com/ziyyanmart/localstore/internal/repository"
)

// ConfigurationResponse is what the UI needs to drive the bridge.
type ConfigurationResponse struct {
	Product       string   `json:"product"`
	DialogTitle   string   `json:"dialogTitle"`
	CancelMessage string   `json:"cancelMessage"`
	WatchEnabled  bool     `json:"watchEnabled"`
	Slots         []string `json:"slots"`
}

// ConfigurationController handles configuration-related API endpoints.
type ConfigurationController struct {
	config *config.Config
}

// NewConfigurationController creates a new ConfigurationController.
func NewConfigurationController(cfg *config.Config) *ConfigurationController {
	return &ConfigurationController{
		config: cfg,
	}
}

// GetConfiguration returns the backup wording and watcher state for the frontend.
// The UI compares failures against cancelMessage to suppress the error toast.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	slots := make([]string, 0, 2)
	for _, s := range repository.Slots() {
		slots = append(slots, s.String())
	}

	c.JSON(http.StatusOK, ConfigurationResponse{
		Product:       cc.config.Backup.Product,
		DialogTitle:   cc.config.Backup.DialogTitle,
		CancelMessage: cc.config.Backup.CancelMessage,
		WatchEnabled:  cc.config.Data.WatchEnabled,
		Slots:         slots,
	})
}
