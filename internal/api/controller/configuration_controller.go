package controller

import (
	"net/http"

	"github.com/bassista/go_persist/internal/config"
	"github.com/gin-gonic/gin"
)

// ConfigurationResponse describes the storage the service persists into.
type ConfigurationResponse struct {
	Backend          string `json:"backend"`
	QuotaBytes       int64  `json:"quotaBytes"`
	RequestTimeoutMs int64  `json:"requestTimeoutMs"`
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

// GetConfiguration returns the storage settings clients may need to size their data.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	quota := cc.config.Storage.QuotaBytes
	if cc.config.Storage.Backend == config.BackendRedis || cc.config.Storage.Backend == config.BackendSQLite {
		// quotas are enforced only by the memory and file backends
		quota = 0
	}
	c.JSON(http.StatusOK, ConfigurationResponse{
		Backend:          cc.config.Storage.Backend,
		QuotaBytes:       quota,
		RequestTimeoutMs: cc.config.Server.RequestTimeout.Milliseconds(),
	})
}
