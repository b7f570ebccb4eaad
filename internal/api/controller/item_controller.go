package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/bassista/go_persist/internal/logger"
	"github.com/bassista/go_persist/internal/storage"
	"github.com/bassista/go_persist/internal/valuesync"
	"github.com/containerd/errdefs"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// AreaProvider returns the storage view of one origin.
type AreaProvider interface {
	Origin(origin string) storage.Area
}

// ItemResponse is the API representation of a persisted value.
type ItemResponse struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source string `json:"source"`
}

// SetItemRequest is the body of PUT /origins/:origin/items/:key.
type SetItemRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// ItemController exposes persisted values over HTTP. Every request builds its
// own valuesync.Value, so each GET reads storage once and each PUT writes once.
type ItemController struct {
	areas     AreaProvider
	validator *validator.Validate
}

func NewItemController(areas AreaProvider) *ItemController {
	return &ItemController{areas: areas, validator: validator.New()}
}

// GetItem returns the value stored under key, or the JSON given in the
// "default" query parameter when nothing usable is stored.
func (ic *ItemController) GetItem(c *gin.Context) {
	origin, key := c.Param("origin"), c.Param("key")

	var def any
	if raw, ok := c.GetQuery("default"); ok {
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "default must be valid JSON"})
			return
		}
	}

	v, err := valuesync.New(c.Request.Context(), ic.areas.Origin(origin), key, valuesync.WithDefault(def))
	if err != nil {
		ic.writeError(c, "read", origin, key, err)
		return
	}
	c.JSON(http.StatusOK, ItemResponse{Key: key, Value: v.Get(), Source: v.Source().String()})
}

// SetItem stores the JSON value from the request body under key.
func (ic *ItemController) SetItem(c *gin.Context) {
	origin, key := c.Param("origin"), c.Param("key")

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	var req SetItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := ic.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be valid JSON"})
		return
	}

	// The stored copy is the only state; no read is needed before writing.
	v, err := valuesync.Attach[any](ic.areas.Origin(origin), key, nil)
	if err != nil {
		ic.writeError(c, "write", origin, key, err)
		return
	}
	if err := v.Set(c.Request.Context(), value); err != nil {
		ic.writeError(c, "write", origin, key, err)
		return
	}
	c.JSON(http.StatusOK, ItemResponse{Key: key, Value: v.Get(), Source: v.Source().String()})
}

func (ic *ItemController) writeError(c *gin.Context, op, origin, key string, err error) {
	// RequestTimeout answers for expired requests.
	if errors.Is(err, context.DeadlineExceeded) {
		return
	}
	status := http.StatusInternalServerError
	switch {
	case errdefs.IsResourceExhausted(err):
		status = http.StatusInsufficientStorage
	case errdefs.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	case errdefs.IsInvalidArgument(err):
		status = http.StatusBadRequest
	}
	logger.WithComponent("api").WithField("origin", origin).Warnf("%s %q failed: %v", op, key, err)
	c.JSON(status, gin.H{"error": "failed to " + op + " item"})
}
