package controllers

import (
	"net/http"
	"time"

	"inventory-grid-service/models"
	"inventory-grid-service/services"

	"github.com/gin-gonic/gin"
)

// GridController handles HTTP requests for the data grid protocol.
type GridController struct {
	service services.GridService
}

// NewGridController creates a new GridController.
func NewGridController(service services.GridService) *GridController {
	return &GridController{service: service}
}

// Query answers one data request from the grid
// POST /data
func (gc *GridController) Query(c *gin.Context) {
	var req models.DataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := gc.service.Query(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateOne applies a partial update to a single record
// PUT /data/:id
func (gc *GridController) UpdateOne(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing record id"})
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	updated, svcErr := gc.service.UpdateOne(c.Request.Context(), id, fields)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data updated successfully",
		"data":    updated,
	})
}

// Export streams the filtered record set as an xlsx workbook
// POST /data/export
func (gc *GridController) Export(c *gin.Context) {
	var req models.DataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	f, svcErr := gc.service.Export(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	filename := "inventory-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// Headers are already sent; nothing left to do but drop the
		// connection.
		c.Abort()
	}
}
