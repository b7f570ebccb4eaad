package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bassista/go_persist/internal/config"
	"github.com/gin-gonic/gin"
)

func TestConfigurationController_GetConfiguration(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		storage      config.StorageConfig
		timeout      time.Duration
		expectedBody ConfigurationResponse
	}{
		{
			name:         "file backend reports quota",
			storage:      config.StorageConfig{Backend: config.BackendFile, QuotaBytes: 5 << 20},
			timeout:      2 * time.Second,
			expectedBody: ConfigurationResponse{Backend: "file", QuotaBytes: 5 << 20, RequestTimeoutMs: 2000},
		},
		{
			name:         "memory backend without quota",
			storage:      config.StorageConfig{Backend: config.BackendMemory},
			timeout:      0,
			expectedBody: ConfigurationResponse{Backend: "memory"},
		},
		{
			name:         "redis backend enforces no quota",
			storage:      config.StorageConfig{Backend: config.BackendRedis, QuotaBytes: 1024},
			timeout:      time.Second,
			expectedBody: ConfigurationResponse{Backend: "redis", RequestTimeoutMs: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Server:  config.ServerConfig{RequestTimeout: tt.timeout},
				Storage: tt.storage,
			}
			cc := NewConfigurationController(cfg)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/configuration", nil)

			cc.GetConfiguration(c)

			if w.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			var got ConfigurationResponse
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if got != tt.expectedBody {
				t.Errorf("expected %+v, got %+v", tt.expectedBody, got)
			}
		})
	}
}
