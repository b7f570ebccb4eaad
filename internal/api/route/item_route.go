package route

import (
	"time"

	"github.com/bassista/go_persist/internal/api/controller"
	"github.com/bassista/go_persist/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// NewItemRouter registers item routes on a group carrying the :origin parameter.
func NewItemRouter(timeout time.Duration, group *gin.RouterGroup, areas controller.AreaProvider) {
	group.Use(middleware.RequestTimeout(timeout))

	ic := controller.NewItemController(areas)

	group.GET("items/:key", ic.GetItem)
	group.PUT("items/:key", ic.SetItem)
}
