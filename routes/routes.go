package routes

import (
	"inventory-grid-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all grid service routes
func RegisterRoutes(r *gin.Engine, ctrl *controllers.GridController) {
	data := r.Group("/data")
	{
		// Query pipeline (pagination, sort, filter, grouping)
		data.POST("", ctrl.Query)
		data.POST("/export", ctrl.Export)

		// Write paths
		data.PUT("/:id", ctrl.UpdateOne)
		data.POST("/bulk-sync", ctrl.BulkSync)
		data.POST("/bulk-create", ctrl.BulkCreate)
	}

	r.PUT("/bulk/update", ctrl.BulkUpdate)
}
