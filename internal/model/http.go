package model

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts public model retrieval under the provided group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/models/:quoteID/:fileName", handler.downloadModel)
}

// RegisterAdminRoutes mounts destructive and order-wide operations; the
// caller wraps the group with auth middleware.
func RegisterAdminRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.DELETE("/models/:id", handler.deleteModel)
	group.GET("/orders/:quoteID/models", handler.listOrderModels)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) downloadModel(c *gin.Context) {
	quoteID := c.Param("quoteID")
	fileName := c.Param("fileName")

	path, err := h.service.Resolve(c.Request.Context(), quoteID, fileName)
	if err != nil {
		switch {
		case errors.Is(err, ErrModelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		case errors.Is(err, ErrStorageUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve model"})
		}
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

func (h *httpHandler) deleteModel(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrModelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "model not found"})
		case errors.Is(err, ErrStorageUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete model"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *httpHandler) listOrderModels(c *gin.Context) {
	quoteID := c.Param("quoteID")

	models, err := h.service.OrderModels(c.Request.Context(), quoteID)
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list order models"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"models": models})
}
