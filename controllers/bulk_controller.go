package controllers

import (
	"net/http"

	"inventory-grid-service/models"

	"github.com/gin-gonic/gin"
)

// BulkUpdate applies a batch of id-keyed partial updates
// PUT /bulk/update
func (gc *GridController) BulkUpdate(c *gin.Context) {
	var req models.BulkRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows must be a non-empty array"})
		return
	}

	summary, svcErr := gc.service.BulkUpdate(c.Request.Context(), req.Rows)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// BulkSync upserts a batch of edited rows keyed by sku
// POST /data/bulk-sync
func (gc *GridController) BulkSync(c *gin.Context) {
	var req models.BulkRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows must be a non-empty array"})
		return
	}

	summary, svcErr := gc.service.BulkSync(c.Request.Context(), req.Rows)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// BulkCreate inserts a batch of new records
// POST /data/bulk-create
func (gc *GridController) BulkCreate(c *gin.Context) {
	var req models.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows must be a non-empty array"})
		return
	}

	created, svcErr := gc.service.BulkCreate(c.Request.Context(), req.Rows)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"newRecords": created})
}
